// Package rbac holds the declarative capability table that maps each role to
// the actions it may perform on each resource, and the chi middleware that
// consults it once per request.
package rbac

import "github.com/odyssey-erp/shiptrack/internal/shared"

// Resource names a protected API resource.
type Resource string

const (
	ResourceUsers          Resource = "users"
	ResourceSuppliers      Resource = "suppliers"
	ResourceItemTypes      Resource = "item_types"
	ResourceShipments      Resource = "shipments"
	ResourceItems          Resource = "items"
	ResourceImporting      Resource = "importing"
	ResourceCustoms        Resource = "customs"
	ResourceCustomsPerType Resource = "customs_per_type"
	ResourceDashboard      Resource = "dashboard"
)

// Action names an operation on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	// ActionAdvance moves a shipment to its successor status.
	ActionAdvance Action = "advance"
	// ActionReceiveCustoms is the final advance into CUSTOMS_RECEIVED.
	ActionReceiveCustoms Action = "receive_customs"
	// ActionOverwriteStatus sets an arbitrary (forward) status.
	ActionOverwriteStatus Action = "overwrite_status"
	// ActionEditMasterKey changes a shipment's backend master key.
	ActionEditMasterKey Action = "edit_master_key"
)

type capabilities map[Resource][]Action

func (c capabilities) allows(resource Resource, action Action) bool {
	for _, a := range c[resource] {
		if a == action {
			return true
		}
	}
	return false
}

var (
	read  = []Action{ActionRead}
	write = []Action{ActionRead, ActionCreate, ActionUpdate}
	full  = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
)

var viewer = capabilities{
	ResourceSuppliers:      read,
	ResourceItemTypes:      read,
	ResourceShipments:      read,
	ResourceItems:          read,
	ResourceImporting:      read,
	ResourceCustoms:        read,
	ResourceCustomsPerType: read,
	ResourceDashboard:      read,
}

var operator = capabilities{
	ResourceSuppliers:      write,
	ResourceItemTypes:      write,
	ResourceShipments:      {ActionRead, ActionCreate, ActionUpdate, ActionAdvance},
	ResourceItems:          write,
	ResourceImporting:      write,
	ResourceCustoms:        write,
	ResourceCustomsPerType: full,
	ResourceDashboard:      read,
}

var admin = capabilities{
	ResourceUsers:     {ActionRead, ActionUpdate},
	ResourceSuppliers: full,
	ResourceItemTypes: full,
	ResourceShipments: {
		ActionRead, ActionCreate, ActionUpdate, ActionDelete,
		ActionAdvance, ActionReceiveCustoms, ActionOverwriteStatus, ActionEditMasterKey,
	},
	ResourceItems:          write,
	ResourceImporting:      write,
	ResourceCustoms:        write,
	ResourceCustomsPerType: full,
	ResourceDashboard:      read,
}

var table = map[shared.Role]capabilities{
	shared.RoleViewer:   viewer,
	shared.RoleOperator: operator,
	shared.RoleAdmin:    admin,
}

// Allowed reports whether role may perform action on resource.
func Allowed(role shared.Role, resource Resource, action Action) bool {
	caps, ok := table[role]
	if !ok {
		return false
	}
	return caps.allows(resource, action)
}

// Authorize checks the identity stored in ctx-derived id against the table.
// It returns shared.ErrUnauthorized when there is no identity and
// shared.ErrForbidden when the role lacks the capability.
func Authorize(id shared.Identity, ok bool, resource Resource, action Action) error {
	if !ok {
		return shared.ErrUnauthorized
	}
	if !Allowed(id.Role, resource, action) {
		return shared.ErrForbidden
	}
	return nil
}
