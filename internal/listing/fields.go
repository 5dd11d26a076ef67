package listing

import (
	"regexp"
	"strconv"
	"strings"
)

// MinPrice is the lowest asking price taken as plausible, in euro
const MinPrice = 1000

// Phrases recognised in normalized listing text
const (
	phrasePriceOnRequest = "prezzo su richiesta"
	phraseGroundFloor    = "piano terra"
	phraseTopFloor       = "ultimo"
	phraseCertPending    = "in attesa di certificazione"
)

// GroundFloor is the floor number recorded for ground floor listings
const GroundFloor = 1

var (
	priceRules = []rule{
		{re: regexp.MustCompile(`€ (\d+\.\d+\.\d+)`)},
		{re: regexp.MustCompile(`€ (\d+\.\d+)`)},
	}

	floorRules = []rule{
		{re: regexp.MustCompile(`piano (\d{1,2})`)},
		{re: regexp.MustCompile(`(\d{1,2}) piano`)},
		{re: regexp.MustCompile(`(\d{1,2}) piani`)},
	}

	areaRules = []rule{
		{re: regexp.MustCompile(`superficie (\d{1,4}) m`)},
	}

	energyRules = []rule{
		{re: regexp.MustCompile(`energetica ?(\S{1,2}) `), valid: validEnergyCapture},
		{re: regexp.MustCompile(`energetica ?(\S{1,2})`), valid: validEnergyCapture},
	}

	parkingRules = []rule{
		{re: regexp.MustCompile(`post\S auto (\d{1,2})`)},
	}

	parkingOnRequest = regexp.MustCompile(`possibilit\S.{0,10}auto`)
	auction          = regexp.MustCompile(`\basta\b`)

	// street keyword, at least two words, then a non-word character or the end
	addressRule = regexp.MustCompile(`\b((?:via|viale|piazza|corso|piazzale) [\p{L}\p{N}_'’]+(?:\s[\p{L}\p{N}_'’]+)+)(?:[^\p{L}\p{N}_'’]|$)`)
)

// ExtractPrice returns the asking price in euro.
// Prices without a thousands separator or below MinPrice are not found.
func ExtractPrice(text string) (Field[int], Miss) {
	onRequest := strings.Contains(text, phrasePriceOnRequest)
	miss := func(m Miss) (Field[int], Miss) {
		if onRequest {
			m = MissUponRequest
		}
		return NotFound[int](), m
	}

	capture, ok, _ := firstMatch(text, priceRules)
	if !ok {
		return miss(MissNoMatch)
	}
	price, err := strconv.Atoi(strings.ReplaceAll(capture, ".", ""))
	if err != nil {
		return miss(MissNoMatch)
	}
	if price < MinPrice {
		return miss(MissTooLow)
	}
	return Found(price), MissNone
}

// ExtractFloor returns the floor number and the top-floor flag.
// A ground floor mention always yields floor 1.
func ExtractFloor(text string) (Field[int], bool) {
	floor := NotFound[int]()
	if capture, ok, _ := firstMatch(text, floorRules); ok {
		if n, err := strconv.Atoi(capture); err == nil {
			floor = Found(n)
		}
	}
	if strings.Contains(text, phraseGroundFloor) {
		floor = Found(GroundFloor)
	}
	return floor, strings.Contains(text, phraseTopFloor)
}

// ExtractArea returns the floor area in square meters
func ExtractArea(text string) (Field[int], Miss) {
	capture, ok, _ := firstMatch(text, areaRules)
	if ok {
		if n, err := strconv.Atoi(capture); err == nil {
			return Found(n), MissNone
		}
	}
	if auction.MatchString(text) {
		return NotAvailable[int](), MissAuction
	}
	return NotAvailable[int](), MissNoMatch
}

// ValidEnergyRating reports whether code is an energy class: a letter A-G,
// optionally followed by one digit or '+'.
func ValidEnergyRating(code string) bool {
	if len(code) == 0 || len(code) > 2 {
		return false
	}
	if code[0] < 'A' || code[0] > 'G' {
		return false
	}
	if len(code) == 2 {
		c := code[1]
		return c == '+' || (c >= '0' && c <= '9')
	}
	return true
}

func validEnergyCapture(capture string) bool {
	return ValidEnergyRating(strings.ToUpper(capture))
}

// ExtractEnergyRating returns the upper-case energy class
func ExtractEnergyRating(text string) (Field[string], Miss) {
	capture, ok, rejected := firstMatch(text, energyRules)
	if ok {
		return Found(strings.ToUpper(capture)), MissNone
	}
	switch {
	case strings.Contains(text, phraseCertPending):
		return NotAvailable[string](), MissCertificationPending
	case rejected:
		return NotAvailable[string](), MissGrammar
	default:
		return NotAvailable[string](), MissNoMatch
	}
}

// ExtractParking returns the number of parking spots. Zero means a spot can
// be bought on request.
func ExtractParking(text string) (Field[int], Miss) {
	if capture, ok, _ := firstMatch(text, parkingRules); ok {
		if n, err := strconv.Atoi(capture); err == nil {
			return Found(n), MissNone
		}
	}
	if parkingOnRequest.MatchString(text) {
		return Found(0), MissOnRequest
	}
	return NotAvailable[int](), MissNoMatch
}

// ExtractAddress returns the first street address in text
func ExtractAddress(text string) Field[string] {
	m := addressRule.FindStringSubmatch(text)
	if m == nil {
		return NotFound[string]()
	}
	return Found(strings.TrimSpace(m[1]))
}
