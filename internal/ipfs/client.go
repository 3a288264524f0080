package ipfs

import (
	"context"
	"fmt"
	"io"

	httpapi "github.com/ipfs/go-ipfs-http-client"
	files "github.com/ipfs/go-libipfs/files"
	options "github.com/ipfs/interface-go-ipfs-core/options"
	ma "github.com/multiformats/go-multiaddr"
)

// Client talks to an IPFS node over its HTTP API.
type Client struct {
	api  *httpapi.HttpApi
	addr string
}

// NewClient connects to the IPFS HTTP API at the given multiaddr, e.g.
// /ip4/127.0.0.1/tcp/5001.
func NewClient(apiAddr string) (*Client, error) {
	addr, err := ma.NewMultiaddr(apiAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid IPFS API address %q: %w", apiAddr, err)
	}
	api, err := httpapi.NewApi(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create IPFS API client: %w", err)
	}
	return &Client{api: api, addr: apiAddr}, nil
}

// Add pins the content under a single-entry directory keyed by name, so the
// returned cid dereferences as <gateway>/ipfs/<cid>/<name>.
func (c *Client) Add(ctx context.Context, name string, r io.Reader) (string, error) {
	dir := files.NewMapDirectory(map[string]files.Node{
		name: files.NewReaderFile(r),
	})
	p, err := c.api.Unixfs().Add(ctx, dir, options.Unixfs.Pin(true))
	if err != nil {
		return "", fmt.Errorf("failed to add %q to IPFS: %w", name, err)
	}
	return p.Cid().String(), nil
}
