//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"google.golang.org/grpc/metadata"
)

// ActorMetadataKey is the gRPC metadata key carrying the calling actor.
const ActorMetadataKey = "x-pomodoro-actor"

// DetectActor returns "username@hostname" for the current process.
func DetectActor() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}

	return currentUser.Username + "@" + hostname, nil
}

// ActorFromContext extracts the actor attached by a client, if any.
func ActorFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	if values := md.Get(ActorMetadataKey); len(values) > 0 {
		return values[0]
	}

	return ""
}
