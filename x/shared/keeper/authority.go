// Package keeper provides authority checks shared by module keepers.
package keeper

import (
	errorsmod "cosmossdk.io/errors"
)

// ValidateAuthority checks that the provided authority matches the expected
// authority. A mismatch is reported as the module's own unauthorized error so
// callers can classify it under their codespace.
//
//	if err := keeper.ValidateAuthority(ms.authority, msg.Authority, types.ErrUnauthorized); err != nil {
//	    return nil, err
//	}
func ValidateAuthority(expected, actual string, unauthorized *errorsmod.Error) error {
	if expected == "" || expected != actual {
		return unauthorized.Wrapf(
			"invalid authority; expected %s, got %s",
			expected,
			actual,
		)
	}
	return nil
}

// ValidateAuthorityOr accepts the authority or any address for which member
// reports true.
func ValidateAuthorityOr(expected, actual string, member func(string) bool, unauthorized *errorsmod.Error) error {
	if expected != "" && expected == actual {
		return nil
	}
	if member != nil && member(actual) {
		return nil
	}
	return unauthorized.Wrapf("%s is neither the authority nor an authorized member", actual)
}
