package service

import (
	"user_center/internal/apperr"
	"user_center/internal/model"
	"user_center/internal/utils"
)

// updateField names one mutable field of the update payload. The names
// double as the field identifiers in permission-denied messages.
type updateField string

const (
	fieldAccount   updateField = "account"
	fieldPassword  updateField = "password"
	fieldNickname  updateField = "nickname"
	fieldAvatarID  updateField = "avatar_id"
	fieldGender    updateField = "gender"
	fieldPhone     updateField = "phone"
	fieldEmail     updateField = "email"
	fieldStatus    updateField = "status"
	fieldRole      updateField = "role"
	fieldIsDeleted updateField = "is_deleted"
	fieldCreatedAt updateField = "created_at"
	fieldUpdatedAt updateField = "updated_at"
)

// updatePolicy is the capability matrix: for each acting role, the payload
// fields it may carry. Anything absent from a role's set is rejected with
// a permission error naming the field. avatar_id never appears here; it is
// stripped unconditionally before the matrix is consulted (cross-entity
// reference integrity is not enforced at this layer).
var updatePolicy = map[model.Role]map[updateField]bool{
	model.RoleDefault: {
		fieldPassword:  true,
		fieldNickname:  true,
		fieldGender:    true,
		fieldPhone:     true,
		fieldEmail:     true,
		fieldIsDeleted: true,
	},
	model.RoleAdmin: {
		fieldAccount:   true,
		fieldPassword:  true,
		fieldNickname:  true,
		fieldGender:    true,
		fieldPhone:     true,
		fieldEmail:     true,
		fieldStatus:    true,
		fieldIsDeleted: true,
	},
	model.RoleRoot: {
		fieldAccount:   true,
		fieldPassword:  true,
		fieldNickname:  true,
		fieldGender:    true,
		fieldPhone:     true,
		fieldEmail:     true,
		fieldStatus:    true,
		fieldRole:      true,
		fieldIsDeleted: true,
		fieldCreatedAt: true,
		fieldUpdatedAt: true,
	},
}

// presentFields lists the fields carried by the payload, in a fixed order
// so rejections are deterministic.
func presentFields(req *model.UpdateUserRequest) []updateField {
	var fields []updateField
	if req.Account != nil {
		fields = append(fields, fieldAccount)
	}
	if req.Password != nil {
		fields = append(fields, fieldPassword)
	}
	if req.Nickname != nil {
		fields = append(fields, fieldNickname)
	}
	if req.AvatarID != nil {
		fields = append(fields, fieldAvatarID)
	}
	if req.Gender != nil {
		fields = append(fields, fieldGender)
	}
	if req.Phone != nil {
		fields = append(fields, fieldPhone)
	}
	if req.Email != nil {
		fields = append(fields, fieldEmail)
	}
	if req.Status != nil {
		fields = append(fields, fieldStatus)
	}
	if req.Role != nil {
		fields = append(fields, fieldRole)
	}
	if req.IsDeleted != nil {
		fields = append(fields, fieldIsDeleted)
	}
	if req.CreatedAt != nil {
		fields = append(fields, fieldCreatedAt)
	}
	if req.UpdatedAt != nil {
		fields = append(fields, fieldUpdatedAt)
	}
	return fields
}

// authorizeUpdate decides whether acting may apply req to target and
// sanitizes the payload in place: the avatar reference is always stripped
// and a plaintext password is replaced by its hash. It runs to completion
// before any store mutation, so a rejection never leaves a partial update.
func authorizeUpdate(acting *model.SafeUser, target *model.User, req *model.UpdateUserRequest) error {
	if !acting.Role.Valid() {
		return apperr.New(apperr.KindInvalidState, "unrecognized user role, please log in again")
	}

	self := acting.ID == target.ID
	switch acting.Role {
	case model.RoleDefault:
		if !self {
			return apperr.New(apperr.KindPermissionDenied, "you may not modify other users")
		}
	case model.RoleAdmin:
		if !self && target.Role != model.RoleDefault {
			return apperr.New(apperr.KindPermissionDenied, "you may not modify other administrators")
		}
	case model.RoleRoot:
		if !self && target.Role == model.RoleRoot {
			return apperr.New(apperr.KindPermissionDenied, "you may not modify other root users")
		}
	}

	// Avatar references are stripped for every role before the matrix runs.
	req.AvatarID = nil

	allowed := updatePolicy[acting.Role]
	for _, f := range presentFields(req) {
		if !allowed[f] {
			return apperr.Newf(apperr.KindPermissionDenied, "field %q may not be modified", string(f))
		}
	}

	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return apperr.Wrap(apperr.KindSystem, "failed to hash password", err)
		}
		req.Password = &hash
	}
	return nil
}

// applyUpdate copies the sanitized, permitted payload onto the record.
func applyUpdate(target *model.User, req *model.UpdateUserRequest) {
	if req.Account != nil {
		target.Account = *req.Account
	}
	if req.Password != nil {
		target.PasswordHash = *req.Password
	}
	if req.Nickname != nil {
		target.Nickname = req.Nickname
	}
	if req.Gender != nil {
		target.Gender = *req.Gender
	}
	if req.Phone != nil {
		target.Phone = req.Phone
	}
	if req.Email != nil {
		target.Email = req.Email
	}
	if req.Status != nil {
		target.Status = *req.Status
	}
	if req.Role != nil {
		target.Role = *req.Role
	}
	if req.IsDeleted != nil {
		target.IsDeleted = *req.IsDeleted
	}
	if req.CreatedAt != nil {
		target.CreatedAt = *req.CreatedAt
	}
	// updated_at is owned by the store and stamped on write; an explicit
	// value, even from root, is superseded there.
}
