package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type pkgHarness struct {
	t   *testing.T
	dir string
}

func newPkg(t *testing.T) *pkgHarness {
	t.Helper()
	return &pkgHarness{t: t, dir: t.TempDir()}
}

func (p *pkgHarness) write(rel, content string) string {
	p.t.Helper()
	path := filepath.Join(p.dir, rel)
	require.NoError(p.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(p.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (p *pkgHarness) out(rel string) string {
	return filepath.Join(p.dir, rel)
}

func (p *pkgHarness) read(rel string) string {
	p.t.Helper()
	b, err := os.ReadFile(filepath.Join(p.dir, rel))
	require.NoError(p.t, err)
	return string(b)
}

func assertContainsInOrder(t *testing.T, s string, parts ...string) {
	t.Helper()
	idx := 0
	for _, p := range parts {
		j := strings.Index(s[idx:], p)
		if j < 0 {
			t.Fatalf("expected %q after offset %d in:\n%s", p, idx, s)
		}
		idx += j + len(p)
	}
}

const shopManifest = `package: shop
components:
  - type: "*DB"
    new: NewDB
  - type: "*Logger"
    new: NewLogger
  - type: "*Users"
    constructor: NewUsers
    dependsOn: ["*DB", "*Logger"]
  - type: "*Basket"
    new: NewBasket
    fields:
      - {name: DB, type: "*DB"}
      - {name: Logger, type: "*Logger"}
`

const cyclicManifest = `package: shop
components:
  - type: "*A"
    constructor: NewA
    dependsOn: ["*B"]
  - type: "*B"
    constructor: NewB
    dependsOn: ["*A"]
`

const unresolvedManifest = `package: shop
components:
  - type: "*A"
    constructor: NewA
    dependsOn: ["*Ghost"]
`
