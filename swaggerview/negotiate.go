package swaggerview

import (
	"strconv"
	"strings"

	"github.com/vitalvas/kasper-swagger/renderers"
)

// acceptRange is one media range of an Accept header.
type acceptRange struct {
	mediaType string
	quality   float64
}

// parseAccept splits an Accept header into media ranges. Parameters other
// than q are dropped; ranges with an unparsable q get quality 0.
func parseAccept(header string) []acceptRange {
	var ranges []acceptRange
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		mediaType := strings.ToLower(strings.TrimSpace(fields[0]))
		if mediaType == "" {
			continue
		}

		r := acceptRange{mediaType: mediaType, quality: 1}
		for _, param := range fields[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || strings.TrimSpace(key) != "q" {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || q < 0 || q > 1 {
				q = 0
			}
			r.quality = q
		}
		ranges = append(ranges, r)
	}
	return ranges
}

// specificity scores how a range matches mediaType: 3 exact, 2 "type/*",
// 1 "*/*", 0 no match.
func specificity(r acceptRange, mediaType string) int {
	switch {
	case r.mediaType == mediaType:
		return 3
	case r.mediaType == "*/*" || r.mediaType == "*":
		return 1
	case strings.HasSuffix(r.mediaType, "/*"):
		if strings.HasPrefix(mediaType, strings.TrimSuffix(r.mediaType, "*")) {
			return 2
		}
	}
	return 0
}

// negotiate returns the renderer best matching the Accept header. The
// highest quality wins, then the most specific range, then renderer order.
// An empty header selects the first renderer.
func negotiate(accept string, offers []renderers.Renderer) (renderers.Renderer, bool) {
	if len(offers) == 0 {
		return nil, false
	}
	ranges := parseAccept(accept)
	if len(ranges) == 0 {
		return offers[0], true
	}

	var (
		best        renderers.Renderer
		bestQuality float64
		bestSpec    int
	)
	for _, offer := range offers {
		quality, spec := 0.0, 0
		for _, r := range ranges {
			s := specificity(r, offer.MediaType())
			if s > spec {
				quality, spec = r.quality, s
			}
		}
		if spec == 0 || quality <= 0 {
			continue
		}
		if best == nil || quality > bestQuality || (quality == bestQuality && spec > bestSpec) {
			best, bestQuality, bestSpec = offer, quality, spec
		}
	}
	return best, best != nil
}

// byFormat returns the renderer registered for a ?format= value.
func byFormat(format string, offers []renderers.Renderer) (renderers.Renderer, bool) {
	for _, offer := range offers {
		if offer.Format() == format {
			return offer, true
		}
	}
	return nil, false
}
