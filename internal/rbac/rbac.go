package rbac

import "github.com/shopfluence/backend/internal/models"

// Permission constants
const (
	PermManageStore         = "manage_store"
	PermManageCampaigns     = "manage_campaigns"
	PermApplyCampaigns      = "apply_campaigns"
	PermReviewProducts      = "review_products"
	PermModerateInfluencers = "moderate_influencers"
)

// RolePermissions defines what each profile role can do. Campaign ownership is
// still checked per store; these are coarse gates only.
var RolePermissions = map[string][]string{
	models.RoleUser: {
		PermManageStore, PermManageCampaigns, PermReviewProducts,
	},
	models.RoleInfluencer: {
		PermManageStore, PermManageCampaigns, PermReviewProducts, PermApplyCampaigns,
	},
	models.RoleAdmin: {
		PermManageStore, PermManageCampaigns, PermReviewProducts, PermApplyCampaigns,
		PermModerateInfluencers,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}
