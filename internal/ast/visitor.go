package ast

// Visitor has one method per node type.
type Visitor interface {
	VisitProgram(n *Program)
	VisitIdentifier(n *Identifier)
	VisitIntegerLiteral(n *IntegerLiteral)
	VisitFloatLiteral(n *FloatLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitCharLiteral(n *CharLiteral)
	VisitByteLiteral(n *ByteLiteral)
	VisitBooleanLiteral(n *BooleanLiteral)
	VisitAtomLiteral(n *AtomLiteral)
	VisitNullLiteral(n *NullLiteral)
	VisitUnitLiteral(n *UnitLiteral)
	VisitInterpolatedString(n *InterpolatedString)
	VisitFunctionDeclaration(n *FunctionDeclaration)
	VisitFieldDecl(n *FieldDecl)
	VisitStructDeclaration(n *StructDeclaration)
	VisitClassDeclaration(n *ClassDeclaration)
	VisitReceiveHandler(n *ReceiveHandler)
	VisitActorDeclaration(n *ActorDeclaration)
	VisitEnumVariantDecl(n *EnumVariantDecl)
	VisitEnumDeclaration(n *EnumDeclaration)
	VisitImplBlock(n *ImplBlock)
	VisitUseItem(n *UseItem)
	VisitUseDeclaration(n *UseDeclaration)
	VisitModuleDeclaration(n *ModuleDeclaration)
	VisitPrefixExpression(n *PrefixExpression)
	VisitInfixExpression(n *InfixExpression)
	VisitLetExpression(n *LetExpression)
	VisitBlockExpression(n *BlockExpression)
	VisitIfExpression(n *IfExpression)
	VisitMatchArm(n *MatchArm)
	VisitMatchExpression(n *MatchExpression)
	VisitWhileExpression(n *WhileExpression)
	VisitForExpression(n *ForExpression)
	VisitLoopExpression(n *LoopExpression)
	VisitBreakExpression(n *BreakExpression)
	VisitContinueExpression(n *ContinueExpression)
	VisitReturnExpression(n *ReturnExpression)
	VisitAssignExpression(n *AssignExpression)
	VisitCompoundAssignExpression(n *CompoundAssignExpression)
	VisitParameter(n *Parameter)
	VisitFunctionLiteral(n *FunctionLiteral)
	VisitNamedArgument(n *NamedArgument)
	VisitCallExpression(n *CallExpression)
	VisitMethodCallExpression(n *MethodCallExpression)
	VisitFieldAccessExpression(n *FieldAccessExpression)
	VisitIndexExpression(n *IndexExpression)
	VisitPathExpression(n *PathExpression)
	VisitRangeExpression(n *RangeExpression)
	VisitListLiteral(n *ListLiteral)
	VisitTupleLiteral(n *TupleLiteral)
	VisitObjectField(n *ObjectField)
	VisitObjectLiteral(n *ObjectLiteral)
	VisitStructLiteral(n *StructLiteral)
	VisitTryCatchExpression(n *TryCatchExpression)
	VisitThrowExpression(n *ThrowExpression)
	VisitTryOperatorExpression(n *TryOperatorExpression)
	VisitAwaitExpression(n *AwaitExpression)
	VisitAsyncExpression(n *AsyncExpression)
	VisitCompClause(n *CompClause)
	VisitComprehensionExpression(n *ComprehensionExpression)
	VisitSpawnExpression(n *SpawnExpression)
	VisitSendExpression(n *SendExpression)
	VisitCastExpression(n *CastExpression)
	VisitWildcardPattern(n *WildcardPattern)
	VisitIdentifierPattern(n *IdentifierPattern)
	VisitLiteralPattern(n *LiteralPattern)
	VisitTuplePattern(n *TuplePattern)
	VisitRestPattern(n *RestPattern)
	VisitListPattern(n *ListPattern)
	VisitFieldPattern(n *FieldPattern)
	VisitStructPattern(n *StructPattern)
	VisitRangePattern(n *RangePattern)
	VisitResultPattern(n *ResultPattern)
	VisitVariantPattern(n *VariantPattern)
	VisitAtPattern(n *AtPattern)
	VisitOrPattern(n *OrPattern)
	VisitNamedType(n *NamedType)
	VisitFunctionType(n *FunctionType)
	VisitTupleType(n *TupleType)
	VisitArrayType(n *ArrayType)
	VisitOptionalType(n *OptionalType)
	VisitReferenceType(n *ReferenceType)
}


// BaseVisitor implements Visitor with no-ops; embed it and override what you need.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program) {}
func (BaseVisitor) VisitIdentifier(*Identifier) {}
func (BaseVisitor) VisitIntegerLiteral(*IntegerLiteral) {}
func (BaseVisitor) VisitFloatLiteral(*FloatLiteral) {}
func (BaseVisitor) VisitStringLiteral(*StringLiteral) {}
func (BaseVisitor) VisitCharLiteral(*CharLiteral) {}
func (BaseVisitor) VisitByteLiteral(*ByteLiteral) {}
func (BaseVisitor) VisitBooleanLiteral(*BooleanLiteral) {}
func (BaseVisitor) VisitAtomLiteral(*AtomLiteral) {}
func (BaseVisitor) VisitNullLiteral(*NullLiteral) {}
func (BaseVisitor) VisitUnitLiteral(*UnitLiteral) {}
func (BaseVisitor) VisitInterpolatedString(*InterpolatedString) {}
func (BaseVisitor) VisitFunctionDeclaration(*FunctionDeclaration) {}
func (BaseVisitor) VisitFieldDecl(*FieldDecl) {}
func (BaseVisitor) VisitStructDeclaration(*StructDeclaration) {}
func (BaseVisitor) VisitClassDeclaration(*ClassDeclaration) {}
func (BaseVisitor) VisitReceiveHandler(*ReceiveHandler) {}
func (BaseVisitor) VisitActorDeclaration(*ActorDeclaration) {}
func (BaseVisitor) VisitEnumVariantDecl(*EnumVariantDecl) {}
func (BaseVisitor) VisitEnumDeclaration(*EnumDeclaration) {}
func (BaseVisitor) VisitImplBlock(*ImplBlock) {}
func (BaseVisitor) VisitUseItem(*UseItem) {}
func (BaseVisitor) VisitUseDeclaration(*UseDeclaration) {}
func (BaseVisitor) VisitModuleDeclaration(*ModuleDeclaration) {}
func (BaseVisitor) VisitPrefixExpression(*PrefixExpression) {}
func (BaseVisitor) VisitInfixExpression(*InfixExpression) {}
func (BaseVisitor) VisitLetExpression(*LetExpression) {}
func (BaseVisitor) VisitBlockExpression(*BlockExpression) {}
func (BaseVisitor) VisitIfExpression(*IfExpression) {}
func (BaseVisitor) VisitMatchArm(*MatchArm) {}
func (BaseVisitor) VisitMatchExpression(*MatchExpression) {}
func (BaseVisitor) VisitWhileExpression(*WhileExpression) {}
func (BaseVisitor) VisitForExpression(*ForExpression) {}
func (BaseVisitor) VisitLoopExpression(*LoopExpression) {}
func (BaseVisitor) VisitBreakExpression(*BreakExpression) {}
func (BaseVisitor) VisitContinueExpression(*ContinueExpression) {}
func (BaseVisitor) VisitReturnExpression(*ReturnExpression) {}
func (BaseVisitor) VisitAssignExpression(*AssignExpression) {}
func (BaseVisitor) VisitCompoundAssignExpression(*CompoundAssignExpression) {}
func (BaseVisitor) VisitParameter(*Parameter) {}
func (BaseVisitor) VisitFunctionLiteral(*FunctionLiteral) {}
func (BaseVisitor) VisitNamedArgument(*NamedArgument) {}
func (BaseVisitor) VisitCallExpression(*CallExpression) {}
func (BaseVisitor) VisitMethodCallExpression(*MethodCallExpression) {}
func (BaseVisitor) VisitFieldAccessExpression(*FieldAccessExpression) {}
func (BaseVisitor) VisitIndexExpression(*IndexExpression) {}
func (BaseVisitor) VisitPathExpression(*PathExpression) {}
func (BaseVisitor) VisitRangeExpression(*RangeExpression) {}
func (BaseVisitor) VisitListLiteral(*ListLiteral) {}
func (BaseVisitor) VisitTupleLiteral(*TupleLiteral) {}
func (BaseVisitor) VisitObjectField(*ObjectField) {}
func (BaseVisitor) VisitObjectLiteral(*ObjectLiteral) {}
func (BaseVisitor) VisitStructLiteral(*StructLiteral) {}
func (BaseVisitor) VisitTryCatchExpression(*TryCatchExpression) {}
func (BaseVisitor) VisitThrowExpression(*ThrowExpression) {}
func (BaseVisitor) VisitTryOperatorExpression(*TryOperatorExpression) {}
func (BaseVisitor) VisitAwaitExpression(*AwaitExpression) {}
func (BaseVisitor) VisitAsyncExpression(*AsyncExpression) {}
func (BaseVisitor) VisitCompClause(*CompClause) {}
func (BaseVisitor) VisitComprehensionExpression(*ComprehensionExpression) {}
func (BaseVisitor) VisitSpawnExpression(*SpawnExpression) {}
func (BaseVisitor) VisitSendExpression(*SendExpression) {}
func (BaseVisitor) VisitCastExpression(*CastExpression) {}
func (BaseVisitor) VisitWildcardPattern(*WildcardPattern) {}
func (BaseVisitor) VisitIdentifierPattern(*IdentifierPattern) {}
func (BaseVisitor) VisitLiteralPattern(*LiteralPattern) {}
func (BaseVisitor) VisitTuplePattern(*TuplePattern) {}
func (BaseVisitor) VisitRestPattern(*RestPattern) {}
func (BaseVisitor) VisitListPattern(*ListPattern) {}
func (BaseVisitor) VisitFieldPattern(*FieldPattern) {}
func (BaseVisitor) VisitStructPattern(*StructPattern) {}
func (BaseVisitor) VisitRangePattern(*RangePattern) {}
func (BaseVisitor) VisitResultPattern(*ResultPattern) {}
func (BaseVisitor) VisitVariantPattern(*VariantPattern) {}
func (BaseVisitor) VisitAtPattern(*AtPattern) {}
func (BaseVisitor) VisitOrPattern(*OrPattern) {}
func (BaseVisitor) VisitNamedType(*NamedType) {}
func (BaseVisitor) VisitFunctionType(*FunctionType) {}
func (BaseVisitor) VisitTupleType(*TupleType) {}
func (BaseVisitor) VisitArrayType(*ArrayType) {}
func (BaseVisitor) VisitOptionalType(*OptionalType) {}
func (BaseVisitor) VisitReferenceType(*ReferenceType) {}
