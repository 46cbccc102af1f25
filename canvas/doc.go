// Package canvas provides a client for the Canvas LMS REST API.
//
// The client is deliberately small: it builds authenticated requests, decodes
// JSON bodies into entity.List values and follows Canvas' Link-header
// pagination. It knows nothing about courses or assignments; the lms package
// builds the domain operations on top of it.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := canvas.NewClient(
//		"https://absalon.ku.dk",
//		token,
//		logger,
//		canvas.WithTimeout(30*time.Second),
//		canvas.WithPageSize(100),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Every page of a listing
//	courses, err := client.FetchAll(ctx, http.MethodGet, "courses", nil)
//
//	// Exactly one request, first page only
//	recent, err := client.FetchPage(ctx, http.MethodGet, "courses", nil)
//
// # Pagination
//
// Canvas returns related pages in a Link header:
//
//	Link: <https://.../courses?page=2&per_page=100>; rel="next",
//	      <https://.../courses?page=1&per_page=100>; rel="current",
//	      <https://.../courses?page=3&per_page=100>; rel="last"
//
// FetchAll stops as soon as the current page is the last page; only then is a
// missing "next" link acceptable. A response without a Link header is a
// single page. There are no retries: a failed page fails the whole call.
//
// # Error Handling
//
//   - ErrTransport: any failed request, including the two below
//   - APIError: a non-2xx response, with status code and body excerpt
//   - ErrPagination: an unusable Link header
package canvas
