package bittrex

// Endpoint names a single exchange call and the category it belongs to.
type Endpoint struct {
	Call     string
	Category Category
}

// Public endpoints.
var (
	GetMarkets         = Endpoint{"getmarkets", CategoryPublic}
	GetCurrencies      = Endpoint{"getcurrencies", CategoryPublic}
	GetTicker          = Endpoint{"getticker", CategoryPublic}
	GetMarketSummaries = Endpoint{"getmarketsummaries", CategoryPublic}
	GetMarketSummary   = Endpoint{"getmarketsummary", CategoryPublic}
	GetOrderBook       = Endpoint{"getorderbook", CategoryPublic}
	GetMarketHistory   = Endpoint{"getmarkethistory", CategoryPublic}
)

// Market endpoints.
var (
	BuyLimitOrder  = Endpoint{"buylimit", CategoryMarket}
	SellLimitOrder = Endpoint{"selllimit", CategoryMarket}
	CancelOrder    = Endpoint{"cancel", CategoryMarket}
	GetOpenOrders  = Endpoint{"getopenorders", CategoryMarket}
)

// Account endpoints.
var (
	GetBalances          = Endpoint{"getbalances", CategoryAccount}
	GetBalance           = Endpoint{"getbalance", CategoryAccount}
	GetDepositAddress    = Endpoint{"getdepositaddress", CategoryAccount}
	WithdrawFunds        = Endpoint{"withdraw", CategoryAccount}
	GetOrder             = Endpoint{"getorder", CategoryAccount}
	GetOrderHistory      = Endpoint{"getorderhistory", CategoryAccount}
	GetWithdrawalHistory = Endpoint{"getwithdrawalhistory", CategoryAccount}
	GetDepositHistory    = Endpoint{"getdeposithistory", CategoryAccount}
)

// Endpoints returns every known endpoint.
func Endpoints() []Endpoint {
	return []Endpoint{
		GetMarkets, GetCurrencies, GetTicker, GetMarketSummaries, GetMarketSummary,
		GetOrderBook, GetMarketHistory,
		BuyLimitOrder, SellLimitOrder, CancelOrder, GetOpenOrders,
		GetBalances, GetBalance, GetDepositAddress, WithdrawFunds, GetOrder,
		GetOrderHistory, GetWithdrawalHistory, GetDepositHistory,
	}
}

// LookupEndpoint finds an endpoint by call name.
func LookupEndpoint(call string) (Endpoint, bool) {
	for _, e := range Endpoints() {
		if e.Call == call {
			return e, true
		}
	}
	return Endpoint{}, false
}
