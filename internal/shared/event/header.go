package event

// HeaderCorrelationID carries the request correlation id across brokers.
const HeaderCorrelationID string = "cID"
