package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) handleCreateRoom(ctx context.Context, sender *client, raw json.RawMessage) error {
	var payload createRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	outcome, err := that.coordinator.CreateRoom(ctx, sender.id, payload.Nickname)
	if err != nil {
		that.logger.Error("failed to create room", "error", err)
		return that.sendError(sender, err)
	}

	that.deliver(outcome)

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, sender *client, raw json.RawMessage) error {
	var payload joinRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	outcome, err := that.coordinator.JoinRoom(ctx, sender.id, payload.RoomCode, payload.Nickname)
	if err != nil {
		return that.sendError(sender, err)
	}

	that.deliver(outcome)

	return nil
}

func (that *Server) handleStartGame(ctx context.Context, sender *client, raw json.RawMessage) error {
	var payload startGamePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	outcome, err := that.coordinator.StartGame(ctx, sender.id, payload.RoomCode, payload.Category)
	if err != nil {
		return that.sendError(sender, err)
	}

	that.deliver(outcome)

	return nil
}

func (that *Server) handleNextRound(ctx context.Context, sender *client, raw json.RawMessage) error {
	var payload nextRoundPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	outcome, err := that.coordinator.NextRound(ctx, sender.id, payload.RoomCode)
	if err != nil {
		return that.sendError(sender, err)
	}

	that.deliver(outcome)

	return nil
}

func (that *Server) handleSubmitAnswer(ctx context.Context, sender *client, raw json.RawMessage) error {
	var payload submitAnswerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	outcome, err := that.coordinator.SubmitAnswer(ctx, sender.id, payload.RoomCode, payload.Answer)
	if err != nil {
		return that.sendError(sender, err)
	}

	that.deliver(outcome)

	return nil
}
