package classification

// Keyword tables for the heuristic fallback tier. Matching is done against
// an upper-cased description, so every entry here must be upper case.
//
// Order matters across tables: subscriptions are checked before online
// shopping so "AMAZON PRIME" lands in Subscriptions rather than Online
// Shopping via the bare "AMAZON" keyword.
var (
	transportationKeywords = []string{
		"UBER",
		"99",
		"LYFT",
		"TAXI",
		"FUEL",
		"GAS STATION",
		"GASOLINE",
		"PARKING",
	}

	foodKeywords = []string{
		"IFOOD",
		"RESTAURANT",
		"BAKERY",
		"SUPERMARKET",
		"MARKET",
		"GROCERY",
		"SNACK",
		"FOOD",
	}

	subscriptionKeywords = []string{
		"NETFLIX",
		"SPOTIFY",
		"AMAZON PRIME",
		"DISNEY",
		"HBO",
		"APPLE",
		"GOOGLE PLAY",
		"SUBSCRIPTION",
		"MONTHLY FEE",
	}

	onlineShoppingKeywords = []string{
		"AMAZON",
		"MERCADO LIVRE",
		"SHOPEE",
		"ALIEXPRESS",
		"EBAY",
		"ONLINE",
		"PURCHASE",
	}
)
