// Command voicepack builds and packages a synthesized voice pack.
//
// The generate subcommand fetches missing lines from the speech endpoint
// and converts them into compressed artifacts; release packages the
// artifacts into a distributable tarball; config manages the
// configuration file; deps reports external tool availability.
package main
