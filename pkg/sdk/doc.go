// Package catalogsearch provides a Go client for the catalog search HTTP API.
//
// The service fans a fuzzy name query out to albums, songs and artists and
// returns the best matches of each kind plus a single top result.
//
//	client, _ := catalogsearch.New("http://localhost:8080",
//	    catalogsearch.WithAPIKey(os.Getenv("CATALOG_API_KEY")),
//	)
//	res, _ := client.Search(ctx, "beatles")
//	if res.Top != nil && res.Top.Kind == catalogsearch.KindArtist {
//	    fmt.Println(res.Top.Artist.Name)
//	}
//
// Scoped searches return a single kind with a relative score cutoff:
//
//	songs, _ := client.SearchSongs(ctx, "yesterday")
package catalogsearch
