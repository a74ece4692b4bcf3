package auth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jaevor/go-nanoid"
)

// DefaultPartnerUserID is the identity used when a partner token carries no
// recoverable numeric user id. The fallback mirrors the partner contract:
// the parsing below is a compatibility shim, not an identity authority.
const DefaultPartnerUserID int64 = 1

// BridgeToken builds the composite token string handed to the New Day
// platform in exchange for a partner session. The host user id is embedded
// so the partner side can recover it with ParsePartnerToken.
func BridgeToken(userID int64) (string, error) {
	generateID, err := nanoid.Standard(21)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return fmt.Sprintf("user-%d_%s", userID, generateID()), nil
}

// ParsePartnerToken extracts a best-effort numeric user id from a partner
// token. Recognized encodings:
//
//	user-{id}_{random}
//	nd_token_{timestamp}_{random}
//	{numeric id}
//
// When no numeric id can be recovered the fixed default identity is
// returned. The extraction is lossy by contract.
func ParsePartnerToken(tokenString string) int64 {
	if tokenString == "" {
		return DefaultPartnerUserID
	}

	if rest, ok := strings.CutPrefix(tokenString, "user-"); ok {
		idPart, _, _ := strings.Cut(rest, "_")
		if id, err := strconv.ParseInt(idPart, 10, 64); err == nil && id > 0 {
			return id
		}
		return DefaultPartnerUserID
	}

	if rest, ok := strings.CutPrefix(tokenString, "nd_token_"); ok {
		// nd_token carries a timestamp, not a user id. Only a trailing
		// numeric segment is trusted as an id.
		parts := strings.Split(rest, "_")
		last := parts[len(parts)-1]
		if len(parts) > 1 {
			if id, err := strconv.ParseInt(last, 10, 64); err == nil && id > 0 {
				return id
			}
		}
		return DefaultPartnerUserID
	}

	if id, err := strconv.ParseInt(tokenString, 10, 64); err == nil && id > 0 {
		return id
	}

	return DefaultPartnerUserID
}
