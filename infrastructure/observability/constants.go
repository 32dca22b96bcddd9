package observability

// Metric name prefixes
const (
	MetricPrefix = "betshop"
)

// Metric names
const (
	// Ticket metrics
	TicketsSoldTotal       = MetricPrefix + ".tickets.sold_total"
	TicketPaymentsTotal    = MetricPrefix + ".tickets.payments_total"
	SaleConfirmationsTotal = MetricPrefix + ".tickets.sale_confirmations_total"

	// Market metrics
	OddsRecalculationsTotal = MetricPrefix + ".markets.odds_recalculations_total"

	// Cash session metrics
	SessionsOpenGauge = MetricPrefix + ".cash.sessions_open"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	// Common labels
	LabelType      = "type"
	LabelEventType = "event_type"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)

// Market types for ticket metrics
const (
	MarketTypePool = "pool"
	MarketTypeOdds = "odds"
)

// Payment outcome types
const (
	PaymentOutcomePaid    = "paid"
	PaymentOutcomeExpired = "expired"
)
