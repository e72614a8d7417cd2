package caption

import "context"

// Set is one caption triple for a single image.
type Set struct {
	English string `json:"english"`
	Telugu  string `json:"telugu"`
	Hindi   string `json:"hindi"`
}

// Generator produces descriptive captions for image bytes. Implementations
// absorb their own failures and always return a usable Set.
type Generator interface {
	Generate(ctx context.Context, data []byte, mimeType string) Set
}

// Fallback is returned whenever any of the upstream caption requests fails.
// The whole triple falls back together so captions are never half-populated.
var Fallback = Set{
	English: "This image could not be analyzed. Please try uploading it again.",
	Telugu:  "ఈ చిత్రాన్ని విశ్లేషించడం సాధ్యపడలేదు. దయచేసి మళ్లీ అప్‌లోడ్ చేసి ప్రయత్నించండి.",
	Hindi:   "इस छवि का विश्लेषण नहीं किया जा सका। कृपया इसे फिर से अपलोड करके देखें।",
}
