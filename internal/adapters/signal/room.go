package signal

import (
	"encoding/json"

	"github.com/dkeye/Board/internal/app/orch"
	"github.com/dkeye/Board/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p struct {
		Type string `json:"type"`
		orch.JoinRequest
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad join payload")
		ctl.sendJSON(conn, orch.NewError(orch.ErrKindBadPayload, "malformed join"))
		return
	}

	log.Info().Str("module", "signal").
		Str("conn", string(id)).
		Str("room", string(p.RoomID)).
		Str("participant", string(p.ParticipantID)).
		Msg("join")
	if err := ctl.Orch.Join(id, p.JoinRequest); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("join refused")
	}
}

func (ctl *SignalWSController) handleDrawUpdate(
	id domain.ConnectionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p struct {
		Type      string          `json:"type"`
		ImageData json.RawMessage `json:"image_data"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad draw_update payload")
		return
	}

	if _, pid, ok := ctl.Orch.Conns.RoomOf(id); ok && !ctl.limiter.Allow(pid) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Str("participant", string(pid)).Msg("draw_update rate limited")
		ctl.sendJSON(conn, orch.NewError(orch.ErrKindRateLimited, "too many draw updates"))
		return
	}

	if err := ctl.Orch.DrawUpdate(id, domain.ImageData(p.ImageData)); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("draw_update dropped")
	}
}

func (ctl *SignalWSController) handleClearCanvas(id domain.ConnectionID) {
	if err := ctl.Orch.ClearCanvas(id); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("clear_canvas dropped")
	}
}
