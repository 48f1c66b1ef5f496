package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"tripspotter/api"
	"tripspotter/app"
	"tripspotter/data"
	"tripspotter/notify"
	"tripspotter/places"
	"tripspotter/planner"
	"tripspotter/trips"
)

var EnvFlag = flag.String("env", "dev", "Set the environment")
var ServeFlag = flag.Bool("serve", false, "Run the server")
var AddressFlag = flag.String("address", ":8080", "Address for server")
var DataDirFlag = flag.String("data-dir", "", "Directory for saved data (default $HOME/.tripspotter)")
var StorageFlag = flag.String("storage", "file", "Storage backend: file, sqlite or postgres")
var DatabaseFlag = flag.String("database-url", "", "Postgres url for --storage postgres (default $DATABASE_URL)")
var MirrorsFlag = flag.String("mirrors", "", "Comma-separated Overpass mirrors (default $OVERPASS_MIRRORS or the public mirrors)")
var RadiusFlag = flag.Int("radius", places.DefaultRadius, "Default search radius in metres")

const home = `# TripSpotter

Find places around a point on the map, collect them into trips and keep your favorites.

- [API](/api)
- [Status](/status)
`

func main() {
	flag.Parse()

	if !*ServeFlag {
		fmt.Fprintln(os.Stderr, "--serve not set")
		return
	}

	dir := *DataDirFlag
	if dir == "" {
		dir = data.DefaultDir()
	}
	dsn := *DatabaseFlag
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	store, err := data.Open(*StorageFlag, dir, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Storage error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	app.Log("main", "Using storage %s", store.Name())

	mirrors := places.MirrorsFromEnv(*MirrorsFlag)
	fetcher := places.NewFetcher(places.NewHTTPTransport(), mirrors)
	app.Log("main", "Overpass mirrors: %s", strings.Join(mirrors, ", "))

	// load the trips and favorites
	p := planner.New(fetcher, trips.New(store), store, notify.NewHub())
	if *RadiusFlag > 0 {
		p.Radius = *RadiusFlag
	}
	app.StatusChecksFunc = p.StatusChecks

	// render the api markdown
	md := api.Markdown()
	apiDoc := app.Render([]byte(md))
	apiHTML := app.RenderHTML("API", "API documentation", string(apiDoc))
	homeHTML := app.RenderTemplate("Home", "Travel planner", home)

	// the action surface
	p.Register(http.DefaultServeMux)

	// serve the status page
	http.HandleFunc("/status", app.StatusHandler)

	// serve the api doc
	http.Handle("/api", app.ServeHTML(apiHTML))

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			app.NotFound(w, r, "not found")
			return
		}
		app.ServeHTML(homeHTML).ServeHTTP(w, r)
	})

	fmt.Println("Starting server on", *AddressFlag)

	if err := http.ListenAndServe(*AddressFlag, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if *EnvFlag == "dev" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		if v := len(r.URL.Path); v > 1 && strings.HasSuffix(r.URL.Path, "/") {
			r.URL.Path = r.URL.Path[:v-1]
		}

		http.DefaultServeMux.ServeHTTP(w, r)
	})); err != nil {
		fmt.Printf("Server error: %v\n", err)
		return
	}
}
