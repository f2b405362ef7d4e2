/*
Command licensectl manages the offline license from a terminal.

Usage:

	licensectl status [--json]
	licensectl activate <file|-> [--dry-run] [--json]
	licensectl remove [--json]
	licensectl fingerprint
	licensectl serve
	licensectl version

Global flags --config and --license-dir select the configuration file and the
directory holding license.json; -v logs workflow details to stderr.

Exit codes: 0 when the resulting status is ACTIVE (NO_LICENSE for remove),
2 for any other license status, 1 for usage or I/O errors.
*/
package main
