package operators

import "github.com/derpetermann/contact-zones/pkg/config"

// NewDefaultTable builds the standard Table of all twelve operators, using
// selection weights from cfg.
func NewDefaultTable(cfg config.OperatorConfig) *Table {
	return NewTable(map[Operator]float64{
		GrowArea{}:     cfg.GrowArea,
		ShrinkArea{}:   cfg.ShrinkArea,
		SwapArea{}:     cfg.SwapArea,
		AlterWeights{}: cfg.AlterWeights,
		AlterPGlobal{}: cfg.AlterPGlobal,
		AlterPArea{}:   cfg.AlterPArea,
		AlterPFamily{}: cfg.AlterPFamily,
		GibbsSources{}: cfg.GibbsSources,
		GibbsPGlobal{}: cfg.GibbsPGlobal,
		GibbsPArea{}:   cfg.GibbsPArea,
		GibbsPFamily{}: cfg.GibbsPFamily,
		GibbsWeights{}: cfg.GibbsWeights,
	})
}
