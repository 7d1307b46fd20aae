// Package environment loads the project's .env file exactly once per process
// and exposes its typed values: the deployment Profile and the database
// connection parameters.
//
// The file lives at <root>/system/.env and must define PROFILE (DEBUG or
// PRODUCTION), HOST, PORT (16-bit unsigned), DBNAME, DBUSER and PASSWORD.
// Parsing uses godotenv; decoding and required-key checks use caarlos0/env.
//
// Usage:
//
//	envStore := environment.MustOpen()
//	if envStore.Profile() == environment.Debug {
//		// ...
//	}
//
// A failed first load is cached: every later Open returns the same error.
package environment
