package kurakot

import (
	"strconv"
	"strings"
)

// ParseCode turns the code string into a typed struct.
func (mc MysteryCard) ParseCode() CardCode {
	code := mc.Code
	ctxt := cardContext{}

	ss := strings.Split(code, ":")
	atoi := func(i int) int {
		if i >= len(ss) {
			return 0
		}
		n, _ := strconv.Atoi(ss[i])
		return n
	}

	switch ss[0] {
	case "grant":
		return CardGrant{ctxt}
	case "volunteer":
		return CardVolunteer{ctxt}
	case "invest":
		return CardInvest{ctxt}
	case "youthaid":
		return CardYouthAid{ctxt}
	case "bayanihan":
		return CardBayanihan{ctxt}
	case "evict":
		return CardEvict{ctxt, atoi(1)}
	case "cashoverflow":
		return CardCashOverflow{ctxt, atoi(1), atoi(2)}
	case "ghost":
		return CardGhost{ctxt, atoi(1), atoi(2)}
	case "landgrab":
		return CardLandGrab{ctxt, atoi(1)}
	case "spend":
		return CardSpend{ctxt, atoi(1), atoi(2), atoi(3)}
	default:
		return CardCustom{ctxt, code}
	}
}

// CardCode is a marker type for parsed card codes.
type CardCode interface {
	x()
}

type cardContext struct{}

func (cardContext) x() {}

// CardGrant pays a community grant on every fairly priced owned
// property.
type CardGrant struct {
	cardContext
}

// CardVolunteer arms the volunteer initiative customer bonus.
type CardVolunteer struct {
	cardContext
}

// CardInvest puts a permanent price surcharge on one owned property.
type CardInvest struct {
	cardContext
}

// CardYouthAid halves the next purchase.
type CardYouthAid struct {
	cardContext
}

// CardBayanihan boosts the next tax collection.
type CardBayanihan struct {
	cardContext
}

// CardEvict throws away a random owned property for a refund.
type CardEvict struct {
	cardContext
	Corrupt int
}

// CardCashOverflow is a big bribe, plus a tax skip.
type CardCashOverflow struct {
	cardContext
	Corrupt int
	Amount  int
}

// CardGhost pays out and leaves ghost employees on the books.
type CardGhost struct {
	cardContext
	Corrupt int
	Amount  int
}

// CardLandGrab curses a random unowned property.
type CardLandGrab struct {
	cardContext
	Corrupt int
}

// CardSpend pays out and dents revenue for some turns.
type CardSpend struct {
	cardContext
	Corrupt int
	Amount  int
	Turns   int
}

// CardCustom is an effect nobody wrote, it does nothing.
type CardCustom struct {
	cardContext
	Code string
}
