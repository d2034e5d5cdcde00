// Package commands defines the aura CLI and wires dependencies for subcommands.
//
// Commands
//
//   - login patient|doctor   Sign in (doctors go through license verification)
//   - logout                 Forget the signed-in identity
//   - whoami                 Show the current session
//   - account link-wallet    Attach a wallet address (patients)
//   - account set-email      Change the profile email
//   - vault open|watch       Create a hand-off session and watch for records (doctors)
//   - vault share|draft      Join a session and send the intake form (patients)
//   - find hospitals|doctors Find providers nearby (patients)
//   - medicine identify      Identify a medicine from a photo (patients)
//   - detect fracture|tumor  Demo scan analysis (any signed-in user)
//
// # Implementation
//
// The root command resolves configuration and builds the dependency graph
// (stores, services, vault client) before any subcommand runs. It then waits
// for the session to finish loading and checks the command's "role"
// annotation against it, so a patient can never run doctor commands and
// vice versa. The check runs on every invocation.
package commands
