// Package identity bootstraps the app id and device uuid the backend expects
// on every request.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cellgit/BearBasic/internal/storage"
)

// ZeroUUID is sent when no device uuid has been stored yet.
const ZeroUUID = "00000000-0000-0000-0000-000000000000"

// Identity is the persisted app and device identity.
type Identity struct {
	AppID      string
	DeviceUUID string
}

// Start persists appID and a freshly generated device uuid. The uuid is
// regenerated on every call.
func Start(ctx context.Context, store storage.Store, appID string) (Identity, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return Identity{}, fmt.Errorf("app id is required")
	}
	if err := store.Set(ctx, storage.KeyAppID, appID); err != nil {
		return Identity{}, fmt.Errorf("save app id: %w", err)
	}

	deviceUUID := strings.ToUpper(uuid.NewString())
	if err := store.Set(ctx, storage.KeyUUID, deviceUUID); err != nil {
		return Identity{}, fmt.Errorf("save device uuid: %w", err)
	}
	return Identity{AppID: appID, DeviceUUID: deviceUUID}, nil
}

// Load reads the stored identity. Missing values are returned empty.
func Load(ctx context.Context, store storage.Store) (Identity, error) {
	appID, err := AppID(ctx, store)
	if err != nil {
		return Identity{}, err
	}
	deviceUUID, _, err := store.Get(ctx, storage.KeyUUID)
	if err != nil {
		return Identity{}, fmt.Errorf("load device uuid: %w", err)
	}
	return Identity{AppID: appID, DeviceUUID: deviceUUID}, nil
}

// AppID returns the stored app id or "".
func AppID(ctx context.Context, store storage.Store) (string, error) {
	appID, _, err := store.Get(ctx, storage.KeyAppID)
	if err != nil {
		return "", fmt.Errorf("load app id: %w", err)
	}
	return appID, nil
}

// DeviceUUID returns the stored uuid, or ZeroUUID when none is stored.
func DeviceUUID(ctx context.Context, store storage.Store) (string, error) {
	v, ok, err := store.Get(ctx, storage.KeyUUID)
	if err != nil {
		return "", fmt.Errorf("load device uuid: %w", err)
	}
	if !ok || strings.TrimSpace(v) == "" {
		return ZeroUUID, nil
	}
	return v, nil
}
