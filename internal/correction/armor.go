package correction

import (
	"strings"

	"github.com/jonathan/specsense/internal/types"
)

var armorMisread = strings.NewReplacer("Armox", "Armor", "armox", "armor", "ARMOX", "ARMOR")

func (c *Corrector) correctArmor(rec types.SpecRecord, log *types.CorrectionLog) {
	value, ok := correctable(rec, types.FieldArmor)
	if !ok {
		return
	}

	if full, ok := c.tables.Armor[strings.ToUpper(value)]; ok {
		apply(rec, log, types.FieldArmor, full, types.ReasonExpansion)
		return
	}
	apply(rec, log, types.FieldArmor, armorMisread.Replace(value), types.ReasonFormatting)
}
