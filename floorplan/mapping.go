package floorplan

import "github.com/sarchlab/dramthermal/addrmap"

// MapToVault maps a channel index to a (vault_x, vault_y) coordinate.
// Unused (returns 0,0) for DDR, which has no vault concept.
func (g *Geometry) MapToVault(channel int) (vx, vy int) {
	switch {
	case g.cfg.IsHMC():
		vaultFactor := g.VaultY
		if g.cfg.BankOrder == 0 {
			vaultFactor = g.VaultX
		}
		vx = channel / vaultFactor
		vy = channel % vaultFactor
		if g.cfg.BankOrder == 0 {
			vx, vy = vy, vx
		}
	case g.cfg.IsHBM():
		vy = channel % 2
		vx = 0
	}
	return vx, vy
}

// MapToBank maps a (bankgroup, bank-within-group) pair to a (bank_x,
// bank_y) coordinate within a vault.
func (g *Geometry) MapToBank(bankgroup, bank int) (bx, by int) {
	absBank := bankgroup*g.cfg.BanksPerGroup + bank
	bankFactor := g.BankX
	if g.cfg.BankOrder != 0 {
		bankFactor = g.BankY
	}

	switch {
	case g.cfg.IsHMC():
		numBankPerLayer := g.cfg.Banks / g.cfg.NumDies
		bankSameLayer := absBank % numBankPerLayer
		bx = bankSameLayer / bankFactor
		by = bankSameLayer % bankFactor
		if g.cfg.BankOrder == 0 {
			bx, by = by, bx
		}

	case g.cfg.IsHBM():
		bx = bankgroup*2 + bank/2
		by = bank % 2

	default: // DDR
		if g.cfg.Bankgroups > 1 {
			bx = bank / 2
			by = bank % 2
			if g.cfg.BankOrder == 0 {
				bx, by = by, bx
			}
			if g.BankX <= g.BankY {
				by += bankgroup * 2
			} else {
				bx += bankgroup * 2
			}
		} else {
			bx = absBank / bankFactor
			by = absBank % bankFactor
			if g.cfg.BankOrder == 0 {
				bx, by = by, bx
			}
		}
	}
	return bx, by
}

// MapToZ maps a (channel, absolute bank) pair to a grid layer index.
func (g *Geometry) MapToZ(channel, bank int) int {
	switch {
	case g.cfg.IsHMC():
		numBankPerLayer := g.cfg.Banks / g.cfg.NumDies
		if g.cfg.BankLayerOrder == 0 {
			return bank / numBankPerLayer
		}
		return g.NumP - bank/numBankPerLayer - 2
	case g.cfg.IsHBM():
		return channel / 2
	default:
		return 0
	}
}

// MapToXY computes the BL*device_width grid coordinates touched by the
// burst starting at addr, following spec.md §4.2's MapToXY algorithm: for
// each beat, the address is cloned with column+=beat and remapped, then
// every device lane's (x,y) is derived from the remapped row and column.
//
// The column increment across beats is a naive, unbounded add (spec.md
// §9's documented open question: whether this matches real hardware
// column-width wraparound is unspecified, and this implementation does
// not second-guess it).
func (g *Geometry) MapToXY(addr addrmap.Address, remap *addrmap.Remapper, vx, vy, bx, by int) (xs, ys []int) {
	cfg := g.cfg
	n := cfg.BL * cfg.DeviceWidth
	xs = make([]int, 0, n)
	ys = make([]int, 0, n)

	bankXOffset := g.BankX * cfg.NumXgrids
	bankYOffset := g.BankY * cfg.NumYgrids

	for beat := 0; beat < cfg.BL; beat++ {
		temp := addr
		temp.Column = addr.Column + beat
		phy := remap.Remap(temp)

		rowID := phy.Row
		colTile := rowID / cfg.TileRowNum
		gridX := rowID / cfg.MatX / cfg.RowTile

		for lane := 0; lane < cfg.DeviceWidth; lane++ {
			colID := phy.Column*cfg.DeviceWidth + lane
			gridY := colID/cfg.MatY + colTile*(cfg.NumYgrids/cfg.RowTile)

			x := vx*bankXOffset + bx*cfg.NumXgrids + gridX
			y := vy*bankYOffset + by*cfg.NumYgrids + gridY
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}

	return xs, ys
}
