package api

import "github.com/alvinbaena/pwd-analyzer/pkg/strength"

type analyzeRequest struct {
	Password string `json:"password"`
}

// ReferenceStrength is the zxcvbn estimate, reported next to our own for
// comparison.
type ReferenceStrength struct {
	Score            int     `json:"score"`
	Entropy          float64 `json:"entropy"`
	CrackTime        float64 `json:"crack_time"`
	CrackTimeDisplay string  `json:"crack_time_display"`
	// Truncated is set when only a prefix of the password was estimated.
	Truncated        bool    `json:"truncated,omitempty"`
}

type analyzeResponse struct {
	*strength.Result
	Reference ReferenceStrength `json:"reference"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type legacyFeatures struct {
	Length     int     `json:"length"`
	Entropy    float64 `json:"entropy"`
	Upper      int     `json:"upper"`
	Lower      int     `json:"lower"`
	Digits     int     `json:"digits"`
	Special    int     `json:"special"`
	Repeats    int     `json:"repeats"`
	Sequential int     `json:"sequential"`
	IsLeaked   int     `json:"is_leaked"`
}

type legacyResponse struct {
	Password string         `json:"password"`
	Strength string         `json:"strength"`
	Score    int            `json:"score"`
	Features legacyFeatures `json:"features"`
}

type legacyErrorResponse struct {
	Detail string `json:"detail"`
}

func newLegacyResponse(res *strength.Result) legacyResponse {
	f := res.Features
	leaked := 0
	if f.IsLeaked {
		leaked = 1
	}

	return legacyResponse{
		Password: res.Password,
		Strength: string(res.Category),
		Score:    res.Score,
		Features: legacyFeatures{
			Length:     f.Length,
			Entropy:    f.Entropy,
			Upper:      f.Upper,
			Lower:      f.Lower,
			Digits:     f.Digits,
			Special:    f.Special,
			Repeats:    f.Repeats,
			Sequential: f.Sequential,
			IsLeaked:   leaked,
		},
	}
}
