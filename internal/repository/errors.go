package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL 错误码
const (
	// CodeUniqueViolation 唯一约束冲突
	CodeUniqueViolation = "23505"
	// CodeInsufficientPrivilege 权限不足（行级安全策略拒绝时的典型错误码）
	CodeInsufficientPrivilege = "42501"
)

// ErrNotFound 行不存在
var ErrNotFound = pgx.ErrNoRows

// IsNotFound 判断是否为行不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation 判断是否为唯一约束冲突
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation
}

// IsPermissionDenied 判断是否为存储层权限/RLS 拒绝
func IsPermissionDenied(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeInsufficientPrivilege
}

// PermissionCode 返回权限错误的原始 PostgreSQL 错误码，便于调用方原样上报
func PermissionCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
