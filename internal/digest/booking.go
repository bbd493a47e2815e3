package digest

import (
	"fmt"
	"net/url"
	"time"
)

// bookingBaseURL is the round-trip flight select deep link base.
const bookingBaseURL = "https://www.ryanair.com/de/de/trip/flights/select"

// BookingURL builds a round-trip flight booking deep link for one
// candidate.
func BookingURL(originIata, destinationIata string, dateOut, dateIn time.Time, adults int) string {
	out := dateOut.Format("2006-01-02")
	in := dateIn.Format("2006-01-02")

	params := url.Values{}
	params.Set("adults", fmt.Sprint(adults))
	params.Set("teens", "0")
	params.Set("children", "0")
	params.Set("infants", "0")
	params.Set("dateOut", out)
	params.Set("dateIn", in)
	params.Set("isConnectedFlight", "false")
	params.Set("discount", "0")
	params.Set("promoCode", "")
	params.Set("isReturn", "true")
	params.Set("originIata", originIata)
	params.Set("destinationIata", destinationIata)
	params.Set("tpAdults", "1")
	params.Set("tpTeens", "0")
	params.Set("tpChildren", "0")
	params.Set("tpInfants", "0")
	params.Set("tpStartDate", out)
	params.Set("tpEndDate", in)
	params.Set("tpDiscount", "0")
	params.Set("tpPromoCode", "")
	params.Set("tpOriginIata", originIata)
	params.Set("tpDestinationIata", destinationIata)

	return bookingBaseURL + "?" + params.Encode()
}
