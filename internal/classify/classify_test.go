package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		label string
		want  entity.FormType
	}{
		{"search label", "Search form for products", entity.FormTypeSearch},
		{"login label", "User login form", entity.FormTypeLogin},
		{"contact label", "Contact us form", entity.FormTypeContact},
		{"registration label", "Account registration form", entity.FormTypeRegistration},
		{"unknown label", "Some widget panel", entity.FormTypeUnknown},
		{"empty label", "", entity.FormTypeUnknown},
		{"case insensitive", "LOGIN PAGE", entity.FormTypeLogin},
		{"search wins over login", "login search box", entity.FormTypeSearch},
		{"fallback suite label", "Unknown form type", entity.FormTypeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.label))
		})
	}
}

func TestSelectorsGenericRolesAlwaysPresent(t *testing.T) {
	generic := []string{
		entity.RoleInput,
		entity.RoleButton,
		entity.RoleSelect,
		entity.RoleTextarea,
		entity.RoleForm,
	}

	for _, ft := range entity.FormTypes {
		sel := Selectors(ft)

		for _, role := range generic {
			assert.Contains(t, sel, role, "form type %s missing role %s", ft, role)
		}
	}
}

func TestSelectorsTypeSpecificRoles(t *testing.T) {
	t.Run("search", func(t *testing.T) {
		sel := Selectors(entity.FormTypeSearch)
		require.Contains(t, sel, entity.RoleSearchInput)
		require.Contains(t, sel, entity.RoleSearchButton)
		require.Contains(t, sel, entity.RoleResults)
	})

	t.Run("login", func(t *testing.T) {
		sel := Selectors(entity.FormTypeLogin)
		require.Contains(t, sel, entity.RoleUsername)
		require.Contains(t, sel, entity.RolePassword)
		require.Contains(t, sel, entity.RoleLoginButton)
	})

	t.Run("contact", func(t *testing.T) {
		sel := Selectors(entity.FormTypeContact)
		require.Contains(t, sel, entity.RoleName)
		require.Contains(t, sel, entity.RoleEmail)
		require.Contains(t, sel, entity.RoleMessage)
		require.Contains(t, sel, entity.RoleSubmit)
	})

	t.Run("registration", func(t *testing.T) {
		sel := Selectors(entity.FormTypeRegistration)
		require.Contains(t, sel, entity.RoleName)
		require.Contains(t, sel, entity.RoleEmail)
		require.Contains(t, sel, entity.RolePassword)
		require.Contains(t, sel, entity.RoleConfirmPassword)
		require.Contains(t, sel, entity.RoleSubmit)
	})

	t.Run("unknown has only generic roles", func(t *testing.T) {
		sel := Selectors(entity.FormTypeUnknown)
		assert.Len(t, sel, 5)
	})
}

func TestClassifyAndSelect(t *testing.T) {
	ft, sel := ClassifyAndSelect("product search page")

	assert.Equal(t, entity.FormTypeSearch, ft)
	assert.Contains(t, sel, entity.RoleSearchInput)
}
