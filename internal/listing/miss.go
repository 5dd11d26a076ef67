package listing

// Miss is the diagnostic reason an extractor produced what it did.
// It never changes the extracted value.
type Miss uint8

const (
	MissNone Miss = iota
	MissNoMatch
	MissUponRequest
	MissTooLow
	MissAuction
	MissCertificationPending
	MissGrammar
	MissOnRequest
)

func (m Miss) String() string {
	switch m {
	case MissNone:
		return "none"
	case MissNoMatch:
		return "no match"
	case MissUponRequest:
		return "price upon request"
	case MissTooLow:
		return "price too low"
	case MissAuction:
		return "auction"
	case MissCertificationPending:
		return "certification pending"
	case MissGrammar:
		return "invalid energy rating"
	case MissOnRequest:
		return "parking on request"
	default:
		return "unknown"
	}
}
