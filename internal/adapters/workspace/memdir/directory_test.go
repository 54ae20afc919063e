package memdir

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"workspace-access/internal/ports/workspace"

	"github.com/stretchr/testify/require"
)

const seedJSON = `{
  "organizations": [
    {"id": "org-1", "name": "Acme", "members": [
      {"user_id": "root", "role": "superadmin"},
      {"user_id": "admin-1", "role": "admin"},
      {"user_id": "u-1", "role": "member"}
    ]}
  ],
  "resources": [
    {"type": "department", "id": "d-1", "name": "Engineering", "organization_id": "org-1", "parent_type": "organization", "parent_id": "org-1"},
    {"type": "team", "id": "t-1", "name": "Platform", "organization_id": "org-1", "parent_type": "department", "parent_id": "d-1"},
    {"type": "Project", "id": "p-1", "name": "Apollo", "organization_id": "org-1", "parent_type": "team", "parent_id": "t-1"},
    {"type": "phase", "id": "ph-1", "name": "Discovery", "organization_id": "org-1", "parent_type": "project", "parent_id": "p-1"}
  ],
  "related": {"p-1": [{"type": "phase", "id": "ph-1"}]}
}`

func seeded(t *testing.T) *Directory {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))

	s, err := LoadSeedFile(path)
	require.NoError(t, err)

	d := New()
	require.NoError(t, d.Apply(s))
	return d
}

func TestDirectory_Roles(t *testing.T) {
	d := seeded(t)
	ctx := context.Background()

	root, err := d.Role(ctx, "org-1", "root")
	require.NoError(t, err)
	require.True(t, root.IsSuperAdmin && root.CanAdminister())

	member, err := d.Role(ctx, "org-1", "u-1")
	require.NoError(t, err)
	require.True(t, member.IsMember)
	require.False(t, member.CanAdminister())

	stranger, err := d.Role(ctx, "org-1", "nobody")
	require.NoError(t, err)
	require.Equal(t, workspace.OrgRole{}, stranger)

	_, err = d.Role(ctx, "org-x", "u-1")
	require.True(t, errors.Is(err, workspace.ErrNotFound))
}

func TestDirectory_Lookups(t *testing.T) {
	d := seeded(t)
	ctx := context.Background()

	p, err := d.Lookup("project").Lookup(ctx, "p-1")
	require.NoError(t, err)
	require.Equal(t, "Apollo", p.Name)
	require.Equal(t, &workspace.ResourceRef{Type: "team", ID: "t-1"}, p.Parent)

	_, err = d.Lookup("phase").Lookup(ctx, "missing")
	require.True(t, errors.Is(err, workspace.ErrNotFound))

	lister, ok := d.Lookup("project").(workspace.RelatedLister)
	require.True(t, ok)
	refs, err := lister.ListRelated(ctx, "p-1")
	require.NoError(t, err)
	require.Equal(t, []workspace.ResourceRef{{Type: "phase", ID: "ph-1"}}, refs)

	_, ok = d.Lookup("phase").(workspace.RelatedLister)
	require.False(t, ok)
}

func TestDirectory_OrganizationIsAResource(t *testing.T) {
	d := seeded(t)
	ctx := context.Background()

	org, err := d.Lookup("organization").Lookup(ctx, "org-1")
	require.NoError(t, err)
	require.Equal(t, "Acme", org.Name)
	require.Equal(t, "org-1", org.OrganizationID)
	require.Nil(t, org.Parent)

	dept, err := d.Lookup("department").Lookup(ctx, "d-1")
	require.NoError(t, err)
	require.Equal(t, &workspace.ResourceRef{Type: "organization", ID: "org-1"}, dept.Parent)

	_, err = d.Lookup("organization").Lookup(ctx, "org-x")
	require.True(t, errors.Is(err, workspace.ErrNotFound))
}

func TestDirectory_ApplyRejectsUnknownRole(t *testing.T) {
	d := New()
	err := d.Apply(Seed{Organizations: []SeedOrganization{{ID: "org-1", Members: []SeedMember{{UserID: "u-1", Role: "owner"}}}}})
	require.Error(t, err)
}
