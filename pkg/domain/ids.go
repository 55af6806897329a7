// Package domain holds the typed identifiers shared across features. String
// IDs keep store rows and JSON payloads readable while the distinct types
// stop a klient ID from slipping into a zimmer parameter.
package domain

import "github.com/google/uuid"

// KlientID identifies a klient.
type KlientID string

// NewKlientID mints a fresh klient identifier.
func NewKlientID() KlientID { return KlientID(uuid.NewString()) }

func (id KlientID) String() string { return string(id) }
func (id KlientID) IsZero() bool   { return id == "" }

// WGID identifies a Pflege-WG.
type WGID string

func (id WGID) String() string { return string(id) }
func (id WGID) IsZero() bool   { return id == "" }

// ZimmerID identifies a Zimmer.
type ZimmerID string

func (id ZimmerID) String() string { return string(id) }
func (id ZimmerID) IsZero() bool   { return id == "" }
