package client

import (
	"context"

	"github.com/Yasamato/Studi-Watch/domain"
)

// iSyncChannel is the bidirectional transport between one participant and
// the room's authoritative state holder. The handler registered via
// OnAuthoritative also receives the echo of the participant's own publishes,
// so one inbound path handles local-origin and remote-origin changes alike.
type iSyncChannel interface {
	Join(ctx context.Context, roomId string) error
	Publish(delta domain.StateDelta) error
	OnAuthoritative(handler func(domain.StateDelta))
	Leave() error
}
