package ipfs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"coursechain/internal/model"

	"github.com/ipfs/go-cid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MediaKind restricts what declared content types an upload may carry.
type MediaKind string

const (
	KindImage MediaKind = "image/"
	KindVideo MediaKind = "video/"
)

// Adder is the piece of the IPFS client the publisher needs.
type Adder interface {
	Add(ctx context.Context, name string, r io.Reader) (string, error)
}

// Publisher pins assets to the content-addressed store and composes
// dereferenceable gateway URLs for them.
type Publisher struct {
	adder      Adder
	gatewayURL string
	log        zerolog.Logger
}

// NewPublisher creates a Publisher. gatewayURL is the public gateway base,
// e.g. https://gateway.ipfs.io.
func NewPublisher(adder Adder, gatewayURL string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		adder:      adder,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		log:        logger.With().Str("component", "ContentPublisher").Logger(),
	}
}

// ValidateType checks the declared media type before any network call.
func ValidateType(asset model.AssetUpload, kind MediaKind) error {
	if !strings.HasPrefix(asset.ContentType, string(kind)) {
		return fmt.Errorf("%q has media type %q, want %s*", asset.Name, asset.ContentType, kind)
	}
	return nil
}

// Publish validates and pins a single asset, returning its stable content
// identifier and gateway URL.
func (p *Publisher) Publish(ctx context.Context, asset model.AssetUpload, kind MediaKind) (model.PublishedAsset, error) {
	if err := ValidateType(asset, kind); err != nil {
		return model.PublishedAsset{}, err
	}
	contentID, err := p.adder.Add(ctx, asset.Name, asset.Content)
	if err != nil {
		return model.PublishedAsset{}, fmt.Errorf("failed to publish %q: %w", asset.Name, err)
	}
	p.log.Debug().Str("name", asset.Name).Str("cid", contentID).Msg("asset published")
	return model.PublishedAsset{
		Name:       asset.Name,
		ContentID:  contentID,
		GatewayURL: p.AssetURL(contentID, asset.Name),
	}, nil
}

// PublishAll pins every asset, preserving input order in the result. The
// whole batch fails if any single upload fails: callers never observe a mix
// of valid and invalid identifiers. Uploads run concurrently.
func (p *Publisher) PublishAll(ctx context.Context, assets []model.AssetUpload, kind MediaKind) ([]model.PublishedAsset, error) {
	for _, asset := range assets {
		if err := ValidateType(asset, kind); err != nil {
			return nil, err
		}
	}

	published := make([]model.PublishedAsset, len(assets))
	g, gctx := errgroup.WithContext(ctx)
	for i, asset := range assets {
		i, asset := i, asset
		g.Go(func() error {
			res, err := p.Publish(gctx, asset, kind)
			if err != nil {
				return err
			}
			published[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return published, nil
}

// AssetURL composes the public gateway URL for a published asset. Pure: no
// network call, stable given the same identifier.
func (p *Publisher) AssetURL(contentID, name string) string {
	if parsed, err := cid.Decode(contentID); err == nil {
		contentID = parsed.String()
	}
	return fmt.Sprintf("%s/ipfs/%s/%s", p.gatewayURL, contentID, url.PathEscape(name))
}

// RewriteContentURL maps an ipfs://<cid>/... URI onto the configured
// gateway. Other URLs pass through unchanged.
func (p *Publisher) RewriteContentURL(raw string) string {
	if rest, ok := strings.CutPrefix(raw, "ipfs://"); ok {
		return fmt.Sprintf("%s/ipfs/%s", p.gatewayURL, rest)
	}
	return raw
}
