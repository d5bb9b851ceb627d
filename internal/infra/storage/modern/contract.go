package modern

import (
	"github.com/velodrive/VRB-SyncService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
// Репозиторий подхватывает активную транзакцию из контекста через
// dbmetrics.GetExecutor, поэтому одни и те же методы работают и внутри
// транзакции миграции, и на обычном чтении
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
