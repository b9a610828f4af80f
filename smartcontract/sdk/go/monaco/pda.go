package monaco

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var ErrInvalidNonce = errors.New("nonce does not derive a valid transfer authority")

// DeriveTransferAuthority derives the program address that owns a user's
// collateral for a reserve.
// Seeds: [user_authority, reserve, [nonce]]
func DeriveTransferAuthority(programID, userAuthority, reserve solana.PublicKey, nonce uint8) (solana.PublicKey, error) {
	if userAuthority.IsZero() {
		return solana.PublicKey{}, fmt.Errorf("user authority is required")
	}
	if reserve.IsZero() {
		return solana.PublicKey{}, fmt.Errorf("reserve is required")
	}
	pk, err := solana.CreateProgramAddress(transferAuthoritySeeds(userAuthority, reserve, nonce), programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %d: %v", ErrInvalidNonce, nonce, err)
	}
	return pk, nil
}

// FindTransferAuthority returns the transfer authority and the highest nonce
// that yields an off-curve address.
func FindTransferAuthority(programID, userAuthority, reserve solana.PublicKey) (solana.PublicKey, uint8, error) {
	if userAuthority.IsZero() {
		return solana.PublicKey{}, 0, fmt.Errorf("user authority is required")
	}
	if reserve.IsZero() {
		return solana.PublicKey{}, 0, fmt.Errorf("reserve is required")
	}
	return solana.FindProgramAddress(
		[][]byte{userAuthority[:], reserve[:]},
		programID,
	)
}

func transferAuthoritySeeds(userAuthority, reserve solana.PublicKey, nonce uint8) [][]byte {
	return [][]byte{
		userAuthority[:],
		reserve[:],
		{nonce},
	}
}
