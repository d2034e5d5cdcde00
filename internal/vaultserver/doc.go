// Package vaultserver implements the backend HTTP API consumed by aura
// clients: hand-off sessions, patient record uploads, provider lookup and a
// health probe.
//
// HTTP API
//
//	POST /api/vault/create-session/ {"doctor_name": "..."}
//	    Create a session. 201 {session_id, qr_url, doctor_name, created_at}.
//
//	GET /api/vault/session/{session_id}/
//	    Return the session and every record uploaded so far, oldest first.
//
//	POST /api/vault/upload/{session_id}/ {name, age, symptoms, ...}
//	    Append a patient record. 201 {id, status: "uploaded"}. Records
//	    missing name, age or symptoms are rejected with 400.
//
//	POST /api/find_hospitals/, POST /api/find_doctors/
//	    {latitude, longitude, radius}. Proxied to the configured places
//	    provider; 503 when none is configured.
//
//	GET /api/health/
//	    Liveness plus host memory usage.
//
// Session ids are UUIDs; any other id in a path is answered with 404.
// Errors are JSON objects of the form {"error": "..."}. Sessions are kept
// in memory, in LevelDB or in DynamoDB depending on configuration.
package vaultserver
