package client

import (
	"os"

	"framechain/pkg/client"
)

const envServerURL = "FRAMECHAIN_SERVER"

// New returns a new framechain client
func New() (client.Client, error) {
	uri := os.Getenv(envServerURL)
	if uri == "" {
		uri = "http://127.0.0.1:8080"
	}
	return client.NewClient(uri)
}
