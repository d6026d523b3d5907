// Command httpauth-probe sends a single GET request through
// httpauth.Transport, answering any Basic/Digest challenge the target
// issues, and prints the final status line. It
// exists to exercise the library end to end against a live target.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-httpauth/httpauth"
)

func main() {
	username := flag.String("user", "", "username")
	password := flag.String("pass", "", "password")
	verbose := flag.Bool("v", false, "log retry decisions to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: httpauth-probe [-user U -pass P] [-v] <url>")
		os.Exit(2)
	}
	target := flag.Arg(0)

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "httpauth: ", log.LstdFlags)
	}

	transport := &httpauth.Transport{
		Creds:  httpauth.Static{Username: *username, Password: *password},
		Logger: logger,
	}
	client := &http.Client{Transport: transport}

	resp, err := client.Get(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	fmt.Printf("%s %s\n", resp.Proto, resp.Status)
}
