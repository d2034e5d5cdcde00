// Package main runs vaultd, the development backend used by aura clients.
// It issues hand-off sessions to doctors, accepts patient record uploads
// into them and proxies provider lookups to Google Places.
//
// See package aura/internal/vaultserver for the HTTP API.
//
// Configuration
//
// Flags override environment variables, which may also come from a .env file
// in the working directory:
//
//	--addr        VAULTD_ADDR            listen address (default :8000)
//	--public-url  VAULTD_PUBLIC_URL      base of join URLs shown to patients
//	--store       VAULTD_STORE           memory, leveldb or dynamodb (default memory)
//	--data-dir    VAULTD_DATA_DIR        LevelDB location
//	--table       VAULTD_DDB_TABLE       DynamoDB table (PK, SK string keys)
//	              AWS_REGION, AWS_ENDPOINT_URL
//	              GOOGLE_PLACES_API_KEY  enables /api/find_hospitals/ and /api/find_doctors/
//	--log-level   VAULTD_LOG_LEVEL
//
// Behaviour
//
//   - With the memory store all state is lost on process exit.
//   - A lightweight access log records method, path, remote, status, bytes and
//     duration for each request.
//   - SIGINT and SIGTERM trigger a graceful shutdown.
//
// As of now vaultd does no authentication: anyone holding a session id can
// append to that session and read it back. Run it on a trusted network only.
package main
