package controller

import (
	"context"
	"fmt"

	roomService "github.com/sharetube/watchparty/internal/service/room"
	"github.com/sharetube/watchparty/pkg/validator"
)

func (c controller) validateInput(input any) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %s", ErrValidationError, validator.Error(validationErrors))
	}

	return nil
}

type EmptyInput struct{}

func (c controller) handlePing(_ context.Context, _ *wsConn, _ EmptyInput) error {
	return nil
}

type JoinInput struct {
	Username string `json:"username" validate:"required,max=256"`
	Room     string `json:"room" validate:"required,max=64"`
}

func (c controller) handleJoin(ctx context.Context, conn *wsConn, input JoinInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if _, err := c.roomService.Join(ctx, &roomService.JoinParams{
		ConnId:   conn.id,
		Sub:      conn.box,
		Username: input.Username,
		RoomId:   input.Room,
	}); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

type AddToQueueInput struct {
	Room    string `json:"room" validate:"max=64"`
	VideoId string `json:"video_id" validate:"required,max=2048"`
	Title   string `json:"title" validate:"max=1024"`
}

func (c controller) handleAddToQueue(ctx context.Context, conn *wsConn, input AddToQueueInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if _, err := c.roomService.AddVideo(ctx, &roomService.AddVideoParams{
		ConnId:   conn.id,
		RoomId:   input.Room,
		VideoRef: input.VideoId,
		Title:    input.Title,
	}); err != nil {
		return fmt.Errorf("failed to add video: %w", err)
	}

	return nil
}

type VideoEndedInput struct {
	Room    string `json:"room" validate:"max=64"`
	VideoId string `json:"video_id" validate:"omitempty,len=11"`
	Seq     uint64 `json:"seq"`
}

func (c controller) handleVideoEnded(ctx context.Context, conn *wsConn, input VideoEndedInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if _, err := c.roomService.EndVideo(ctx, &roomService.EndVideoParams{
		ConnId:  conn.id,
		RoomId:  input.Room,
		VideoId: input.VideoId,
		Seq:     input.Seq,
	}); err != nil {
		return fmt.Errorf("failed to end video: %w", err)
	}

	return nil
}

type RequestSyncInput struct {
	Room string `json:"room" validate:"max=64"`
}

func (c controller) handleRequestSync(ctx context.Context, conn *wsConn, input RequestSyncInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if _, err := c.roomService.RequestSync(ctx, &roomService.RequestSyncParams{
		ConnId: conn.id,
		RoomId: input.Room,
	}); err != nil {
		return fmt.Errorf("failed to request sync: %w", err)
	}

	return nil
}

// SendMessageInput.User is accepted for compatibility and ignored; the author is the joined name.
type SendMessageInput struct {
	Room string `json:"room" validate:"max=64"`
	User string `json:"user"`
	Text string `json:"text" validate:"required,max=4096"`
}

func (c controller) handleSendMessage(ctx context.Context, conn *wsConn, input SendMessageInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if _, err := c.roomService.SendMessage(ctx, &roomService.SendMessageParams{
		ConnId: conn.id,
		RoomId: input.Room,
		Text:   input.Text,
	}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
