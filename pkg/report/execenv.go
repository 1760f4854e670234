// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package report

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"os/exec"
	"os/user"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const unknown = "unknown"

// GetExecEnv describes the machine running the scan.
func GetExecEnv() ExecEnv {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown_host"
	}

	uid := 0
	if currentUser, err := user.Current(); err == nil {
		if uidInt, parseErr := strconv.Atoi(currentUser.Uid); parseErr == nil {
			uid = uidInt
		}
	}

	release, version := osRelease()

	return ExecEnv{
		OS:        runtime.GOOS,
		OSRelease: release,
		OSVersion: version,
		Host:      host,
		Arch:      runtime.GOARCH,
		UID:       uid,
		Start:     time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func osRelease() (string, string) {
	switch runtime.GOOS {
	case "linux":
		f, err := os.Open("/etc/os-release")
		if err != nil {
			return unknown, unknown
		}
		defer f.Close()
		return parseKeyValues(f, "NAME=", "VERSION=")
	case "darwin":
		out, err := exec.Command("sw_vers").Output()
		if err != nil {
			return "macOS", unknown
		}
		return parseKeyValues(bytes.NewReader(out), "ProductName:", "ProductVersion:")
	case "windows":
		out, err := exec.Command("cmd", "/c", "ver").Output()
		if err != nil {
			return "Windows", unknown
		}
		return "Windows", strings.TrimSpace(string(out))
	}
	return unknown, unknown
}

// parseKeyValues returns the values of the first lines starting with
// nameKey and versionKey, stripped of blanks and quotes.
func parseKeyValues(r io.Reader, nameKey, versionKey string) (string, string) {
	name, version := unknown, unknown

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if v, ok := strings.CutPrefix(line, nameKey); ok && name == unknown {
			name = strings.Trim(strings.TrimSpace(v), `"`)
		}
		if v, ok := strings.CutPrefix(line, versionKey); ok && version == unknown {
			version = strings.Trim(strings.TrimSpace(v), `"`)
		}
	}
	return name, version
}
