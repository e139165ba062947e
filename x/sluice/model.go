package sluice

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/orm"
)

func init() {
	migration.MustRegister(1, &Config{}, migration.NoModification)
}

var _ orm.Model = (*Config)(nil)

func (m *Config) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if err := m.Threshold.Validate(); err != nil {
		errs = errors.AppendField(errs, "Threshold", err)
	} else if !m.Threshold.IsNonNegative() {
		errs = errors.AppendField(errs, "Threshold", errors.Wrap(errors.ErrAmount, "must not be negative"))
	}
	return errs
}

// NewConfigBucket returns a bucket for keeping the gate configuration. The
// configuration is a singleton, stored under the ConfigAddress key.
func NewConfigBucket() orm.ModelBucket {
	b := orm.NewModelBucket("sluice", &Config{})
	return migration.NewModelBucket("sluice", b)
}

// ConfigCondition returns the condition that the configuration singleton is
// stored under. It is computed from a fixed seed, so any party can derive it
// offline, and no signing key can ever claim it.
func ConfigCondition() weave.Condition {
	return weave.NewCondition("sluice", "seed", []byte("config"))
}

// ConfigAddress returns the deterministic address of the configuration
// singleton.
func ConfigAddress() weave.Address {
	return ConfigCondition().Address()
}
