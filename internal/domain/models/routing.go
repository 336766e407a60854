package models

import (
	"fmt"
	"sort"
	"strings"
)

// Proxy multipliers. Futures and index symbols are not orderable in the
// sandbox, so contracts are translated into ETF share quantities.
const (
	NQProxyMultiplier  = 10 // 1 NQ contract -> 10 QQQ shares
	SPXProxyMultiplier = 20 // 1 SPX/ES contract -> 20 SPY shares
)

// VerifiedSymbols are the equities known to fill in the sandbox account.
var VerifiedSymbols = map[string]bool{
	"SPY":   true,
	"QQQ":   true,
	"AAPL":  true,
	"MSFT":  true,
	"TSLA":  true,
	"NVDA":  true,
	"GOOGL": true,
	"AMZN":  true,
	"META":  true,
}

var (
	nqAliases  = map[string]bool{"NQ": true, "NQH25": true, "NQM25": true, "NQU25": true, "NQZ25": true, "/NQ": true}
	spxAliases = map[string]bool{"SPX": true, "SPXW": true}
	esAliases  = map[string]bool{"ES": true, "ESH25": true, "ESM25": true, "ESU25": true, "ESZ25": true, "/ES": true}
)

// RoutedAlert is an alert translated to an orderable symbol and quantity.
type RoutedAlert struct {
	Symbol     string // orderable symbol
	Quantity   int    // share quantity after multiplier
	Multiplier int
	ProxyFor   string // original symbol family when proxied, "" for direct
}

// Route maps an alert symbol to an orderable symbol, applying proxy
// multipliers for futures/index aliases and rejecting unverified equities.
func Route(symbol string, quantity int) (RoutedAlert, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	switch {
	case nqAliases[s]:
		return RoutedAlert{Symbol: "QQQ", Quantity: quantity * NQProxyMultiplier, Multiplier: NQProxyMultiplier, ProxyFor: "NQ"}, nil
	case spxAliases[s]:
		return RoutedAlert{Symbol: "SPY", Quantity: quantity * SPXProxyMultiplier, Multiplier: SPXProxyMultiplier, ProxyFor: "SPX"}, nil
	case esAliases[s]:
		return RoutedAlert{Symbol: "SPY", Quantity: quantity * SPXProxyMultiplier, Multiplier: SPXProxyMultiplier, ProxyFor: "ES"}, nil
	case VerifiedSymbols[s]:
		return RoutedAlert{Symbol: s, Quantity: quantity, Multiplier: 1}, nil
	default:
		return RoutedAlert{}, fmt.Errorf("symbol %s not in verified set: %s", s, strings.Join(verifiedList(), ", "))
	}
}

func verifiedList() []string {
	out := make([]string, 0, len(VerifiedSymbols))
	for s := range VerifiedSymbols {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
