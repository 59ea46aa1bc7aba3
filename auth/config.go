// Copyright 2023 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

func decodeConfig(cfg map[string]interface{}, out interface{}) error {
	if err := mapstructure.Decode(cfg, out); err != nil {
		return fmt.Errorf("decoding authenticator config: %w", err)
	}

	return nil
}

// checkUnexpected reports the keys left over in a ",remain" map.
func checkUnexpected(rest map[string]interface{}) error {
	if len(rest) == 0 {
		return nil
	}

	var unexpected []string
	for k := range rest {
		unexpected = append(unexpected, k)
	}
	sort.Strings(unexpected)

	return fmt.Errorf("unexpected fields in config: %s",
		strings.Join(unexpected, ", "))
}
