package repository

// TxRepos repositorios atados a una misma transacción de BD.
// Los casos de uso que mueven saldo o stock los reciben desde TxRunner.Run.
type TxRepos struct {
	Items        ItemRepository
	Costs        CostEntryRepository
	Movements    StockMovementRepository
	Accounts     BankAccountRepository
	Transactions BankTransactionRepository
	Bills        BillRepository
	Installments InstallmentRepository
	Sales        SaleRepository
	NFes         NFeRepository
	Mappings     NFeMappingRepository
	Suppliers    SupplierRepository
	Companies    CompanyRepository
	Users        UserRepository
}
