// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadPIDs returns the PIDs given as arguments, or one PID per line of r when
// fromStdin is set and no arguments are given. Blank lines and lines starting
// with '#' are skipped.
func ReadPIDs(args []string, fromStdin bool, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if !fromStdin {
		return nil, errors.New("no PIDs given; pass them as arguments or use --stdin")
	}

	var pids []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pids = append(pids, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read PIDs: %w", err)
	}

	if len(pids) == 0 {
		return nil, errors.New("no PIDs read from standard input")
	}

	return pids, nil
}
