//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// AuthScope represents where an authorization applies
// ENUM(global,group)
type AuthScope string
