// Package config loads skyhigh's client and server settings.
//
// # Overview
//
// Settings come from three layers, later layers winning:
//
//  1. TOML file (default ~/.config/skyhigh/config.toml)
//  2. A .env file in the working directory, read with godotenv
//  3. The process environment
//
// A missing config file or .env file is not an error; defaults are used so
// the client works out of the box against a local docker-compose stack.
//
// # Default Values
//
//   - Config file: ~/.config/skyhigh/config.toml
//   - API URL: empty (relative paths against the origin)
//   - Origin: http://localhost:8000
//   - Log file: ~/.local/share/skyhigh/skyhigh.log
//   - Server bind: :8001
//   - Mongo database: skyhigh (storage is in-memory while mongo_uri is empty)
//   - Max upload: 32 MiB
//
// # TOML Format
//
//	api_url = "http://localhost:8001"
//	origin = "http://localhost:8000"
//	log_file = "~/.local/share/skyhigh/skyhigh.log"
//
//	[server]
//	bind = ":8001"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "skyhigh"
//	max_upload_mb = 32
//
// # Environment
//
//   - SKYHIGH_API_URL: configured backend base URL. Set to an empty value to
//     force relative paths.
//   - SKYHIGH_ORIGIN: the origin the client is served from.
//   - SKYHIGH_MONGO_URI: MongoDB connection string for `skyhigh serve`.
//
// The configured API URL is not used directly; endpoint.Resolve decides
// whether the origin can reach it.
package config
