// Package prepmod scrapes the clinic search of a PrepMod scheduling site.
//
// PrepMod renders its clinic search as server-side HTML. This package fetches
// the result pages one at a time, extracts a ClinicRecord per clinic and
// handles the "virtual waiting room" the site puts in front of the search
// endpoint under load.
//
// # Architecture
//
//   - Client: fetches a single search page over a shared resty client, never
//     following redirects
//   - ParseDocument: turns a page body into a goquery document
//   - DetectWaitingRoom: recognises the waiting-room interstitial by its title
//   - Extractor: pulls name, availability and registration link out of each
//     clinic container
//   - Searcher: the pagination state machine (searching, waiting room,
//     bailed, done)
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := prepmod.NewClient(prepmod.DefaultBaseURL, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	searcher, err := prepmod.NewSearcher(client, logger, prepmod.WithOutput(os.Stdout))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := searcher.Run(ctx, prepmod.SearchOptions{Wait: true})
//
// # Error Handling
//
// Only transport failures are returned as errors (as *TransportError).
// Unexpected HTTP statuses end pagination and keep the partial results;
// clinics whose name cannot be found are logged and skipped.
package prepmod
