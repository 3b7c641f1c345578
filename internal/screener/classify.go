package screener

import (
	"strings"

	"coinsift/internal/domain"
)

var flagshipSymbols = map[string]bool{
	"BTC": true,
	"ETH": true,
}

var stableSymbols = map[string]bool{
	"USDT": true, "USDC": true, "DAI": true, "BUSD": true,
	"TUSD": true, "USDP": true, "FRAX": true, "GUSD": true,
}

var memeSymbols = map[string]bool{
	"DOGE": true, "SHIB": true, "PEPE": true, "FLOKI": true,
	"BONK": true, "WIF": true,
}

var defiSymbols = map[string]bool{
	"UNI": true, "AAVE": true, "MKR": true, "COMP": true,
	"CRV": true, "SNX": true, "SUSHI": true, "LDO": true,
}

var layerScalingSymbols = map[string]bool{
	"MATIC": true, "ARB": true, "OP": true, "IMX": true,
	"STRK": true, "METIS": true,
}

// Classify applies the ordered tier rules, first match wins, and returns the
// tier metadata with the score-derived quality band filled in. The total does
// not influence the tier itself; the snapshot's identity and market standing
// place it.
func Classify(snap domain.AssetSnapshot, total float64) domain.TierInfo {
	info := domain.TierTable[classifyTier(snap)]
	info.Quality = qualityLabel(total)
	return info
}

func qualityLabel(total float64) string {
	switch {
	case total >= 9:
		return "excellent fundamentals"
	case total >= 7:
		return "solid fundamentals"
	case total >= 5:
		return "average fundamentals"
	case total >= 3:
		return "weak fundamentals"
	default:
		return "very weak fundamentals"
	}
}

func classifyTier(snap domain.AssetSnapshot) domain.ClassificationTier {
	symbol := strings.ToUpper(strings.TrimSpace(snap.Symbol))
	category := strings.ToLower(snap.Category)

	switch {
	case flagshipSymbols[symbol]:
		return domain.TierFlagship
	case snap.Rank > 0 && snap.Rank <= 10 && snap.MarketCap >= 10_000_000_000:
		return domain.TierLargeCap
	case stableSymbols[symbol] || strings.Contains(category, "stablecoin"):
		return domain.TierStableValue
	case memeSymbols[symbol] || strings.Contains(category, "meme"):
		return domain.TierMeme
	case defiSymbols[symbol] || strings.Contains(category, "decentralized finance") || strings.Contains(category, "defi"):
		return domain.TierDeFiUtility
	case layerScalingSymbols[symbol] || strings.Contains(category, "layer 2") || strings.Contains(category, "scaling"):
		return domain.TierLayerScaling
	case snap.Rank > 0 && snap.Rank <= 50:
		return domain.TierMidCap
	case snap.Rank > 0 && snap.Rank <= 100:
		return domain.TierSmallCap
	case snap.Rank > 0 && snap.Rank <= 500:
		return domain.TierMicroCap
	default:
		return domain.TierNanoCap
	}
}
