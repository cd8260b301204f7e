package core

// VerificationLevelOrb is the verification level recorded for newly
// provisioned profiles.
const VerificationLevelOrb = "orb"

// syntheticKeyDomain is the fixed domain appended to wallet addresses to
// form identity-store login keys.
const syntheticKeyDomain = "worldcoin.local"

// SyntheticLoginKey maps a wallet address to the deterministic, email-shaped
// key under which its identity-store user is registered. The identity store
// only offers email-based primitives, so wallet identities are addressed
// through keys of this shape. No mail is ever delivered to them.
func SyntheticLoginKey(walletAddress string) string {
	return walletAddress + "@" + syntheticKeyDomain
}

// UserProfile is the marketplace-facing profile row for a wallet identity.
// Exactly one profile exists per wallet address. Profiles are created lazily
// on first sign-in and share their ID with the identity-store user.
type UserProfile struct {
	ID                string  // Identity-store user id
	WalletAddress     string  // Unique natural key
	Username          string  // Display name
	ProfilePictureURL string  // Profile picture reference
	NullifierHash     string  // World ID nullifier placeholder
	VerificationLevel string  // e.g. "orb"
	IsVerified        bool    // Marketplace verification flag
	IsSeller          bool    // Seller flag
	Rating            *float64 // Optional rating, nil until first review
}

// Session is the token pair issued by the identity store after a verified
// one-time-token exchange. Sessions are owned by the caller; this service
// does not persist them.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}
