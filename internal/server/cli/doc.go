// Package cli implements cahierctl, the administration command line of the
// cahier de veille server.
//
// Commands:
//   - serve: migrate the schema and run the HTTP server
//   - migrate: apply pending migrations and exit
//   - useradd: create an operator account, prompting for the password
//   - list: print the cahiers of an operator
//   - export: write the PDF of a cahier to disk
//
// Storage and secrets are taken from the server configuration (environment,
// .env file or the JSON file given with -c).
package cli
