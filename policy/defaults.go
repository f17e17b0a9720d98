package policy

// Built-in compliance rules. Fleets can replace or extend these with
// their own .rego files via LoadDir.
const defaultPolicy = `package wsreport.compliance

import rego.v1

findings contains f if {
	not input.row.workspace.root_encrypted
	f := {
		"rule": "unencrypted_root_volume",
		"severity": "high",
		"reason": "root volume is not encrypted",
	}
}

findings contains f if {
	not input.row.workspace.user_encrypted
	f := {
		"rule": "unencrypted_user_volume",
		"severity": "high",
		"reason": "user volume is not encrypted",
	}
}

findings contains f if {
	input.row.activity.unused
	f := {
		"rule": "unused_workspace",
		"severity": "medium",
		"reason": "no connection in the evaluated window",
	}
}

findings contains f if {
	input.row.user.found
	not input.row.user.enabled
	f := {
		"rule": "disabled_owner",
		"severity": "high",
		"reason": "workspace owner account is disabled in the directory",
	}
}

findings contains f if {
	not input.row.user.found
	f := {
		"rule": "orphaned_workspace",
		"severity": "medium",
		"reason": "workspace owner does not exist in the directory",
	}
}
`
