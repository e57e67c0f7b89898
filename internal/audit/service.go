package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"bondstore-backend/internal/database"
	"bondstore-backend/internal/models"
)

type LogOptions struct {
	VesselID    *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		VesselID:    opts.VesselID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// UndoLog - Bir audit log'u geri al
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log bulunamadı: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("bu işlem zaten geri alınmış")
	}

	switch log.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("entity silinemedi: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri yüklenemedi: %w", err)
		}

	case models.AuditActionDelete:
		if err := recreateEntity(log.EntityType, log.AfterData, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri oluşturulamadı: %w", err)
		}

	default:
		return fmt.Errorf("bu işlem türü geri alınamaz")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	undoLog := models.AuditLog{
		VesselID:    log.VesselID,
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log kaydedilemedi: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "distribution":
		// totalSpent önbelleği dağıtımla birlikte düzeltilmeli
		var dist models.Distribution
		if err := database.DB.First(&dist, "id = ?", entityID).Error; err != nil {
			return err
		}
		if err := database.DB.Delete(&models.Distribution{}, "id = ?", entityID).Error; err != nil {
			return err
		}
		_, err := models.RecalculateTotalSpent(database.DB, dist.SeafarerID)
		return err
	case "supply_record":
		return database.DB.Delete(&models.SupplyRecord{}, "id = ?", entityID).Error
	case "seafarer":
		if err := database.DB.Where("seafarer_id = ?", entityID).Delete(&models.Distribution{}).Error; err != nil {
			return err
		}
		return database.DB.Delete(&models.Seafarer{}, "id = ?", entityID).Error
	case "inventory_item":
		if err := database.DB.Where("inventory_item_id = ?", entityID).Delete(&models.SupplyRecord{}).Error; err != nil {
			return err
		}
		if err := database.DB.Where("inventory_item_id = ?", entityID).Delete(&models.ItemBarcode{}).Error; err != nil {
			return err
		}
		return database.DB.Delete(&models.InventoryItem{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// recreateEntity - Silinen entity'yi geri oluştur
func recreateEntity(entityType string, afterJSON string, beforeJSON string) error {
	dataJSON := beforeJSON
	if dataJSON == "" || dataJSON == "null" {
		dataJSON = afterJSON
	}

	switch entityType {
	case "distribution":
		var dist models.Distribution
		if err := json.Unmarshal([]byte(dataJSON), &dist); err != nil {
			return err
		}
		dist.ID = 0
		if err := database.DB.Create(&dist).Error; err != nil {
			return err
		}
		_, err := models.RecalculateTotalSpent(database.DB, dist.SeafarerID)
		return err

	case "supply_record":
		var supply models.SupplyRecord
		if err := json.Unmarshal([]byte(dataJSON), &supply); err != nil {
			return err
		}
		supply.ID = 0
		return database.DB.Create(&supply).Error

	case "seafarer":
		var seafarer models.Seafarer
		if err := json.Unmarshal([]byte(dataJSON), &seafarer); err != nil {
			return err
		}
		seafarer.ID = 0
		return database.DB.Create(&seafarer).Error

	case "inventory_item":
		var item models.InventoryItem
		if err := json.Unmarshal([]byte(dataJSON), &item); err != nil {
			return err
		}
		item.ID = 0
		// originalItemID korunur; defter eşlemesi kopmaz
		return database.DB.Create(&item).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

// restoreEntity - Entity'yi önceki haline döndür (update geri alma)
func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "distribution":
		var dist models.Distribution
		if err := json.Unmarshal([]byte(dataJSON), &dist); err != nil {
			return err
		}
		if err := database.DB.Model(&models.Distribution{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"seafarer_id":       dist.SeafarerID,
			"inventory_item_id": dist.InventoryItemID,
			"original_item_id":  dist.OriginalItemID,
			"date":              dist.Date,
			"item_name":         dist.ItemName,
			"quantity":          dist.Quantity,
			"unit_price":        dist.UnitPrice,
		}).Error; err != nil {
			return err
		}
		_, err := models.RecalculateTotalSpent(database.DB, dist.SeafarerID)
		return err

	case "seafarer":
		var seafarer models.Seafarer
		if err := json.Unmarshal([]byte(dataJSON), &seafarer); err != nil {
			return err
		}
		return database.DB.Model(&models.Seafarer{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"display_id":        seafarer.DisplayID,
			"name":              seafarer.Name,
			"rank":              seafarer.Rank,
			"is_representative": seafarer.IsRepresentative,
			"total_spent":       seafarer.TotalSpent,
		}).Error

	case "inventory_item":
		var item models.InventoryItem
		if err := json.Unmarshal([]byte(dataJSON), &item); err != nil {
			return err
		}
		return database.DB.Model(&models.InventoryItem{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":           item.Name,
			"price_per_unit": item.PricePerUnit,
			"received_date":  item.ReceivedDate,
		}).Error

	default:
		return fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}
