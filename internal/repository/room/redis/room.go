package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sharetube/watchparty/internal/repository/room"
)

func (r repo) getRoomKey(roomId string) string {
	return "room:" + roomId
}

func (r repo) SetRoom(ctx context.Context, params *room.SetRoomParams) error {
	data, err := json.Marshal(params.Room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	pipe := r.rc.TxPipeline()
	pipe.Set(ctx, r.getRoomKey(params.Room.Id), data, r.expireDuration)
	pipe.SAdd(ctx, roomListKey, params.Room.Id)
	pipe.Expire(ctx, roomListKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (r repo) RemoveRoom(ctx context.Context, roomId string) error {
	pipe := r.rc.TxPipeline()
	delCmd := pipe.Del(ctx, r.getRoomKey(roomId))
	pipe.SRem(ctx, roomListKey, roomId)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to remove room: %w", err)
	}

	if delCmd.Val() == 0 {
		return room.ErrRoomNotFound
	}

	return nil
}
