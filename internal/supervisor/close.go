package supervisor

type CloseCode int

const (
	CloseNormal          CloseCode = 1000
	CloseGoingAway       CloseCode = 1001
	ClosePolicyViolation CloseCode = 1008
	CloseInternalError   CloseCode = 1011
	CloseSessionReplaced CloseCode = 4001
)

// Причины закрытия для логов и метрик.
const (
	ReasonPeerClosed  = "peer_closed"
	ReasonIdleTimeout = "idle_timeout"
	ReasonReplaced    = "session_replaced"
	ReasonShutdown    = "server_shutdown"
	ReasonWriteFailed = "write_failed"
	ReasonSnapshot    = "snapshot_failed"
)

type closeDecision struct {
	code   CloseCode
	reason string
}
