package api

// AssetKind is the kind of media carried by an asset.
type AssetKind string

const (
	// AssetImage a still image
	AssetImage AssetKind = "image"

	// AssetVideo a video clip
	AssetVideo AssetKind = "video"
)

// AssetOrigin tells where an asset comes from.
type AssetOrigin string

const (
	// OriginSynthesized the asset was produced by a generation backend
	OriginSynthesized AssetOrigin = "synthesized"

	// OriginPredicted the asset was materialized from a continuity prediction
	OriginPredicted AssetOrigin = "predicted"

	// OriginRelayed the asset was re-hosted by a relay provider
	OriginRelayed AssetOrigin = "relayed"
)

// MediaAsset is an image or video byte-stream plus its resolvable locations.
// URLs only contains locations the video synthesis backend is able to
// dereference, one per successful relay attempt.
type MediaAsset struct {
	Kind   AssetKind
	Origin AssetOrigin
	Bytes  []byte
	URLs   []string
}

// Hosted returns true if the asset has at least one dereferencable URL.
func (a MediaAsset) Hosted() bool {
	return len(a.URLs) > 0
}

// URL returns the canonical hosted location of the asset, i.e. the first
// URL a relay provider returned for it. Empty if the asset is not hosted.
func (a MediaAsset) URL() string {
	if len(a.URLs) == 0 {
		return ""
	}
	return a.URLs[0]
}

// AddURL records an additional hosted location for the asset.
func (a *MediaAsset) AddURL(u string) {
	a.URLs = append(a.URLs, u)
}
