package domain

// HistoryLimit caps StoreStats.OrderHistory.
const HistoryLimit = 30

// HistoryDateLayout formats history dates as UTC calendar days.
const HistoryDateLayout = "2006-01-02"

type HistoryEntry struct {
	Date   string `json:"date"`
	Orders int    `json:"orders"`
}

type StoreStats struct {
	TotalOrders   int            `json:"totalOrders"`
	PendingOrders int            `json:"pendingOrders"`
	TotalViews    int            `json:"totalViews"`
	OrderHistory  []HistoryEntry `json:"orderHistory"`
}
