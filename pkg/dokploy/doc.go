/*
Package dokploy is a small client for the Dokploy deployment platform API.

Every call goes through a Dispatcher, which joins the configured base URL with a
relative endpoint, attaches the fixed `accept` and `x-api-key` headers and sends
a GET or POST with a 10 second timeout.

	client, err := dokploy.NewClient(dokploy.Config{
		BaseURL: "https://dokploy.example.com",
		APIKey:  os.Getenv("DOKPLOY_API"),
	})
	if err != nil {
		log.Fatal(err)
	}
	resp, err := client.Projects.All(ctx)

# Results

A successful call returns a *Response holding either the decoded JSON value or,
when the body is not JSON, the raw text. Non-200 replies and transport failures
are printed and yield a nil *Response with a nil error; only programming errors
such as ErrUnsupportedMethod, ErrUnknownResource or ErrMissingID are returned.

# Offline mode

With Config.Offline set, no HTTP client is created. The dispatcher prints the
method, URL, headers and payload it would have sent and returns a nil *Response.

# Endpoints

	GET  api/project.all
	POST api/trpc/application.deploy   {"json":{"applicationId":...}}
	POST api/trpc/postgres.start|stop  {"json":{"postgresId":...}}
	POST api/trpc/mysql.start|stop     {"json":{"mysqlId":...}}
	POST api/trpc/redis.start|stop     {"json":{"redisId":...}}
	POST api/trpc/mongo.start|stop     {"json":{"mongoId":...}}
	POST api/trpc/compose.start|stop   {"json":{"composeId":...}}

The start/stop endpoints come from an embedded catalog which LoadCatalog can
replace with a YAML or JSON file.
*/
package dokploy
