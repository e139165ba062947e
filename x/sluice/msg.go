package sluice

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
)

func init() {
	migration.MustRegister(1, &CreateMsg{}, migration.NoModification)
	migration.MustRegister(1, &TransferMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateThresholdMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdatePartiesMsg{}, migration.NoModification)
}

var _ weave.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return "sluice/create"
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if err := m.Threshold.Validate(); err != nil {
		errs = errors.AppendField(errs, "Threshold", err)
	} else if !m.Threshold.IsNonNegative() {
		errs = errors.AppendField(errs, "Threshold", errors.Wrap(errors.ErrAmount, "must not be negative"))
	}
	return errs
}

var _ weave.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return "sluice/transfer"
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if err := m.Amount.Validate(); err != nil {
		errs = errors.AppendField(errs, "Amount", err)
	} else if !m.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be greater than zero"))
	}
	return errs
}

var _ weave.Msg = (*UpdateThresholdMsg)(nil)

func (UpdateThresholdMsg) Path() string {
	return "sluice/update_threshold"
}

func (m *UpdateThresholdMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	// Zero threshold is allowed. It opens the gate for any positive
	// amount.
	if err := m.Threshold.Validate(); err != nil {
		errs = errors.AppendField(errs, "Threshold", err)
	} else if !m.Threshold.IsNonNegative() {
		errs = errors.AppendField(errs, "Threshold", errors.Wrap(errors.ErrAmount, "must not be negative"))
	}
	return errs
}

var _ weave.Msg = (*UpdatePartiesMsg)(nil)

func (UpdatePartiesMsg) Path() string {
	return "sluice/update_parties"
}

func (m *UpdatePartiesMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}
