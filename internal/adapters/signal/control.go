package signal

import "github.com/dkeye/Board/internal/app/orch"

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	ctl.sendJSON(conn, orch.Notice{Type: orch.TypePong})
}
