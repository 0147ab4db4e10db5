// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package syntax

import "math/big"

func bigInt(n int64) *big.Int { return big.NewInt(n) }

// normStr parses src and returns the canonical rendering of its
// normal form.
func normStr(src string) string {
	return Normalize(MustParse(src)).String()
}
